package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode         string `mapstructure:"mode"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Providers struct {
		Kakao struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"kakao"`
		GooglePlaces struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"googlePlaces"`
		Gemini struct {
			Model string `mapstructure:"model"`
		} `mapstructure:"gemini"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"providers"`
	Recommendation struct {
		SearchSize    int `mapstructure:"searchSize"`    // candidates requested from the keyword search
		TopN          int `mapstructure:"topN"`          // candidates that get the deep enrichment pass
		SpotRadius    int `mapstructure:"spotRadius"`    // metres
		SpotPoolLimit int `mapstructure:"spotPoolLimit"` // nearby pool size before random sampling
		SpotPickCount int `mapstructure:"spotPickCount"`
	} `mapstructure:"recommendation"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
