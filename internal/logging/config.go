package logging

type Config struct {
	Level       string `envconfig:"RANGO_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"RANGO_LOG_DEV" default:"false"`
}
