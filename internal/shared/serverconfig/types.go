package serverconfig

type Config struct {
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	Auth       AuthConfig       `yaml:"auth" mapstructure:"auth"`
	Sim        SimConfig        `yaml:"sim" mapstructure:"sim"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// StorageConfig 选择日报落地方式：memory / mongodb / mysql。
type StorageConfig struct {
	Driver  string `yaml:"driver" mapstructure:"driver"`
	FlushMs int    `yaml:"flush_ms" mapstructure:"flush_ms"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

// AuthConfig 为空 JWTSecret 时关闭管理接口鉴权。
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	AdminKey      string `yaml:"admin_key" mapstructure:"admin_key"`
	TokenTTLHours int    `yaml:"token_ttl_hours" mapstructure:"token_ttl_hours"`
}

type SimConfig struct {
	TownID         int             `yaml:"town_id" mapstructure:"town_id"`
	Seed           int64           `yaml:"seed" mapstructure:"seed"`
	HalfSize       int             `yaml:"half_size" mapstructure:"half_size"`
	StartingMoney  float64         `yaml:"starting_money" mapstructure:"starting_money"`
	TaxRate        int             `yaml:"tax_rate" mapstructure:"tax_rate"`
	Sandbox        bool            `yaml:"sandbox" mapstructure:"sandbox"`
	GameSpeed      float64         `yaml:"game_speed" mapstructure:"game_speed"`
	DayLengthS     float64         `yaml:"day_length_s" mapstructure:"day_length_s"`
	TickIntervalMs int             `yaml:"tick_interval_ms" mapstructure:"tick_interval_ms"`
	Economy        EconomyConfig   `yaml:"economy" mapstructure:"economy"`
	Generator      GeneratorConfig `yaml:"generator" mapstructure:"generator"`
}

type EconomyConfig struct {
	TaxPerCitizen float64            `yaml:"tax_per_citizen" mapstructure:"tax_per_citizen"`
	EventChance   float64            `yaml:"event_chance" mapstructure:"event_chance"`
	Maintenance   map[string]float64 `yaml:"maintenance" mapstructure:"maintenance"`
}

type GeneratorConfig struct {
	RoadLength       int `yaml:"road_length" mapstructure:"road_length"`
	BuildingQuota    int `yaml:"building_quota" mapstructure:"building_quota"`
	MaxBuildAttempts int `yaml:"max_build_attempts" mapstructure:"max_build_attempts"`
}
