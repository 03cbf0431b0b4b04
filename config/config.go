package config

import (
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/volts-dev/utils"
	log "github.com/volts-dev/logger"
)

var fmt = newFormat() // 配置主要文件格式读写实现
var cfgs sync.Map
var models sync.Map // IConfig.String() -> IConfig, used by Reload to refresh every registered model

var (
	// App settings.
	AppVer        string
	AppName       string
	AppUrl        string
	AppSubUrl     string
	AppPath       string
	AppFilePath   string
	AppDir        string
	DefaultPrefix = "volts"
	defaultConfig = New()
)

type (
	Option func(*Config)

	Config struct {
		fmt        *format
		Mode       ModeType
		Debug      bool
		Prefix     string `json:"Prefix"`
		FileName   string
		CreateFile bool
		//AppFilePath string
		//AppPath     string
		//AppDir      string
	}

	IConfig interface {
		Init(...Option)
		Load() error
		Save() error
		String() string
	}
)

// Register binds a model into the reload set so that Reload() refreshes
// it whenever the backing file changes (see WithWatcher).
func Register(model IConfig) {
	models.Store(model.String(), model)
}

func Unregister(model IConfig) {
	models.Delete(model.String())
}

func init() {
	AppFilePath = utils.AppFilePath()
	AppPath = utils.AppPath()
	AppDir = utils.AppDir()
}

func Default() *Config {
	return defaultConfig
}

func New(opts ...Option) *Config {
	cfg := &Config{
		fmt:        fmt,
		Mode:       MODE_NORMAL,
		Prefix:     DefaultPrefix,
		CreateFile: true,
		//AppFilePath: AppFilePath,
		//AppPath:     AppPath,
		//AppDir:      AppDir,
	}
	cfg.Init(opts...)

	// 如果无文件则创建新的
	if cfg.CreateFile && !utils.FileExists(cfg.FileName) {
		cfg.fmt.v.WriteConfig()
	}

	// 取缓存
	if c, ok := cfgs.Load(cfg.Prefix); ok {
		return c.(*Config)
	}

	cfgs.Store(cfg.Prefix, cfg)
	return cfg
}

// config: the config struct with binding the options
func (self *Config) Init(opts ...Option) {
	for _, opt := range opts {
		opt(self)
	}
}

// default is CONFIG_FILE_NAME = "config.json"
func (self *Config) Load(fileName ...string) error {
	if self.FileName != "" {
		self.fmt.v.SetConfigFile(filepath.Join(AppPath, self.FileName))
	} else {
		self.fmt.v.SetConfigFile(filepath.Join(AppPath, CONFIG_FILE_NAME))
	}
	err := self.fmt.v.ReadInConfig() // Find and read the config file
	if err != nil {                  // Handle errors reading the config file
		return err
	}

	return nil
}

func (self *Config) Save(opts ...Option) error {
	for _, opt := range opts {
		opt(self)
	}

	if self.FileName != "" {
		self.fmt.v.SetConfigFile(filepath.Join(AppPath, self.FileName))
	} else {
		self.fmt.v.SetConfigFile(filepath.Join(AppPath, CONFIG_FILE_NAME))
	}

	if err := self.fmt.v.WriteConfig(); err != nil {
		return err
	}

	return nil
}

func (self *Config) GetBool(field string, defaultValue bool) bool {
	return self.fmt.GetBool(field, defaultValue)
}

// GetStringValue from default namespace
func (self *Config) GetString(field, defaultValue string) string {
	return self.fmt.GetString(field, defaultValue)
}

// GetIntValue from default namespace
func (self *Config) GetInt(field string, defaultValue int) int {
	return self.fmt.GetInt(field, defaultValue)
}

func (self *Config) GetInt32(field string, defaultValue int32) int32 {
	return self.fmt.GetInt32(field, defaultValue)
}

func (self *Config) GetInt64(field string, defaultValue int64) int64 {
	return self.fmt.GetInt64(field, defaultValue)
}

func (self *Config) GetIntSlice(field string, defaultValue []int) []int {
	return self.fmt.GetIntSlice(field, defaultValue)
}

func (self *Config) GetTime(field string, defaultValue time.Time) time.Time {
	return self.fmt.GetTime(field, defaultValue)
}

func (self *Config) GetDuration(field string, defaultValue time.Duration) time.Duration {
	return self.fmt.GetDuration(field, defaultValue)
}

func (self *Config) GetFloat64(field string, defaultValue float64) float64 {
	return self.fmt.GetFloat64(field, defaultValue)
}

func (self *Config) SetValue(field string, value interface{}) {
	self.fmt.SetValue(field, value)
}

func (self *Config) Unmarshal(rawVal interface{}) error {
	return self.fmt.Unmarshal(rawVal)
}

// 反序列字段映射到数据类型
func (self *Config) UnmarshalField(field string, rawVal interface{}) error {
	return self.fmt.UnmarshalKey(field, rawVal)
}

func (self *Config) String() string {
	return self.Prefix
}

func (self *Config) Register(model IConfig) {
	Register(model)
}

func (self *Config) Unregister(model IConfig) {
	Unregister(model)
}

// LoadToModel decodes the section keyed by model.String() (the whole file
// when String() is empty) into model, honoring "field" struct tags.
func (self *Config) LoadToModel(model interface{}) error {
	key := modelKey(model)
	if key == "" {
		return self.fmt.Unmarshal(model)
	}
	return self.fmt.UnmarshalKey(key, model)
}

// SaveFromModel flattens model's exported fields (skipping field:"-") into
// the backing store under model.String(), writing to disk unless immed
// is explicitly passed false.
func (self *Config) SaveFromModel(model interface{}, immed ...bool) error {
	key := modelKey(model)
	data := fieldMap(model)

	if key == "" {
		for k, v := range data {
			self.fmt.SetValue(k, v)
		}
	} else {
		self.fmt.SetValue(key, data)
	}

	write := true
	if len(immed) > 0 {
		write = immed[0]
	}
	if !write {
		return nil
	}
	return self.fmt.v.WriteConfig()
}

// Reload re-reads the backing file and refreshes every model registered
// via Register, used as the fsnotify callback installed by WithWatcher.
func (self *Config) Reload() error {
	if err := self.fmt.v.ReadInConfig(); err != nil {
		return err
	}

	var rerr error
	models.Range(func(_, v interface{}) bool {
		model := v.(IConfig)
		if err := self.LoadToModel(model); err != nil {
			log.Err(err)
			rerr = err
		}
		return true
	})
	return rerr
}

func modelKey(model interface{}) string {
	m, ok := model.(IConfig)
	if !ok {
		return ""
	}
	return m.String()
}

// fieldMap walks model's exported fields, keying each by its "field" tag
// (falling back to the field name) and skipping field:"-" entries.
func fieldMap(model interface{}) map[string]interface{} {
	result := map[string]interface{}{}

	val := reflect.ValueOf(model)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return result
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return result
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		tag := f.Tag.Get("field")
		if tag == "-" {
			continue
		}
		name := tag
		if name == "" {
			name = f.Name
		}
		result[name] = val.Field(i).Interface()
	}
	return result
}
