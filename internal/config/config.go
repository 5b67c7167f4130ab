package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config reúne todas as configurações lidas do ambiente.
type Config struct {
	ServerAddress string   `env:"SERVER_ADDRESS" envDefault:":8080"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	DB        DBConfig
	Log       LogConfig
	ContaOvos ContaOvosConfig

	loc *time.Location
}

// DBConfig descreve a conexão com o banco. DB_DRIVER=sqlite usa DB_PATH.
type DBConfig struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	Host            string        `env:"DB_HOST"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER"`
	Password        string        `env:"DB_PASSWORD"`
	Name            string        `env:"DB_NAME"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	Timezone        string        `env:"DB_TIMEZONE" envDefault:"America/Sao_Paulo"`
	Path            string        `env:"DB_PATH" envDefault:"ovitrampas.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	LogLevel        string        `env:"DB_LOG_LEVEL" envDefault:"warn"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// LogConfig controla nível, formato e rotação do log.
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAgeDays int    `env:"LOG_MAX_AGE" envDefault:"7"`
}

// ContaOvosConfig aponta para o sistema Conta Ovos. URL vazia desativa a sincronização.
type ContaOvosConfig struct {
	URL     string        `env:"CONTA_OVOS_URL"`
	Token   string        `env:"CONTA_OVOS_TOKEN"`
	Timeout time.Duration `env:"CONTA_OVOS_TIMEOUT" envDefault:"15s"`
}

// Load carrega .env em dev e faz o parse das variáveis de ambiente.
func Load() (*Config, error) {
	// carrega .env em dev
	for _, f := range []string{"../.env.local", ".env.local", ".env"} {
		_ = godotenv.Load(f)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("falha ao ler variaveis de ambiente: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case "postgres":
		if c.DB.Host == "" || c.DB.Port == "" || c.DB.User == "" || c.DB.Name == "" {
			return fmt.Errorf("variaveis de ambiente de DB não configuradas")
		}
	case "sqlite":
		if c.DB.Path == "" {
			return fmt.Errorf("DB_PATH obrigatorio para DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("DB_DRIVER invalido: %q", c.DB.Driver)
	}

	loc, err := time.LoadLocation(c.DB.Timezone)
	if err != nil {
		return fmt.Errorf("DB_TIMEZONE invalido: %w", err)
	}
	c.loc = loc
	return nil
}

// Location é o fuso de DB_TIMEZONE. Define o que é "um dia" para datas de
// instalação, coleta e leitura.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// PostgresDSN monta a DSN no formato chave=valor, aceito tanto pelo GORM quanto pelo pgx.
func (d DBConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.Timezone,
	)
}

// String omite a senha, para poder ir para o log.
func (d DBConfig) String() string {
	if d.Driver == "sqlite" {
		return fmt.Sprintf("sqlite:%s", d.Path)
	}
	return fmt.Sprintf("postgres://%s@%s:%s/%s", d.User, d.Host, d.Port, d.Name)
}
