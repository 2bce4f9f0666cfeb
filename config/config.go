package config

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// MustLoad reads .env (if present) and then config.yaml from the working
// directory or /etc/<service>. Every key can be overridden from the
// environment, with dots replaced by underscores.
func MustLoad(service string) {
	_ = godotenv.Load("./.env")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/" + service)
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic("error while reading config file: " + err.Error())
		}
	}
}

func SetDefaults() {
	viper.SetDefault("env", "development")
	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("http.client_timeout", 10*time.Second)
	viper.SetDefault("http.allowed_origins", []string{"http://localhost:8080", "http://127.0.0.1:8080"})

	viper.SetDefault("pricing.delivery_fee", "2.99")
	viper.SetDefault("pricing.tax_rate", "0.08")
	viper.SetDefault("pricing.currency", "usd")

	viper.SetDefault("session.secret", "change-me")
	viper.SetDefault("session.ttl", 30*24*time.Hour)
	viper.SetDefault("session.secure_cookie", false)

	viper.SetDefault("auth.url", "http://localhost:8090")
	viper.SetDefault("orders.url", "http://localhost:8081")
	viper.SetDefault("stripe.secret_key", "")

	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.db", "overcooked")
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")

	viper.SetDefault("kafka.broker", "localhost:9092")
	viper.SetDefault("kafka.order_topic", "order-events")
	viper.SetDefault("kafka.tracker_group", "tracker-svc")

	viper.SetDefault("gateway.storefront_url", "http://localhost:8084")
	viper.SetDefault("gateway.orders_url", "http://localhost:8081")
	viper.SetDefault("gateway.tracker_url", "http://localhost:8085")
	viper.SetDefault("gateway.frontend_dir", "./frontend")

	viper.SetDefault("tracking.base_url", "http://localhost:8080")
}

// NewLogger returns a production logger unless env is "development".
func NewLogger() *zap.SugaredLogger {
	if viper.GetString("env") == "development" {
		return zap.Must(zap.NewDevelopment()).Sugar()
	}
	return zap.Must(zap.NewProduction()).Sugar()
}

func MustInitPostgres() *sql.DB {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.port"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		panic("failed to connect to database: " + err.Error())
	}

	if err = db.Ping(); err != nil {
		panic("failed to ping database: " + err.Error())
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: viper.GetString("redis.host") + ":" + viper.GetString("redis.port"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		panic("failed to connect to Redis: " + err.Error())
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{viper.GetString("kafka.broker")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(viper.GetString("kafka.broker")),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
}
