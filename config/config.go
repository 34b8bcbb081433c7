package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MonitorAddress string `mapstructure:"monitor_address"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// GameConfig 游戏经济参数。这些在不同的大富翁变体之间并不一致，
// 所以全部做成可配置项而不是写死在代码里。
type GameConfig struct {
	StartingCash        int  `mapstructure:"starting_cash"`
	PassGoBonus         int  `mapstructure:"pass_go_bonus"`
	BailAmount          int  `mapstructure:"bail_amount"`
	UtilityMultiplier   int  `mapstructure:"utility_multiplier"`
	TurnSeconds         int  `mapstructure:"turn_seconds"`
	MinPlayers          int  `mapstructure:"min_players"`
	MaxPlayers          int  `mapstructure:"max_players"`
	TripleDoublesToJail bool `mapstructure:"triple_doubles_to_jail"`
}

// TurnDuration 返回回合倒计时时长
func (g GameConfig) TurnDuration() time.Duration {
	return time.Duration(g.TurnSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	setDefaults()

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.monitor_address", ":9100")

	viper.SetDefault("game.starting_cash", 1500)
	viper.SetDefault("game.pass_go_bonus", 200)
	viper.SetDefault("game.bail_amount", 50)
	viper.SetDefault("game.utility_multiplier", 4)
	viper.SetDefault("game.turn_seconds", 45)
	viper.SetDefault("game.min_players", 2)
	viper.SetDefault("game.max_players", 6)
	viper.SetDefault("game.triple_doubles_to_jail", true)
}
