package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/newsletter/internal/app/migrations"
	"github.com/shandysiswandi/newsletter/internal/pkg/clock"
	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/goroutine"
	"github.com/shandysiswandi/newsletter/internal/pkg/hash"
	"github.com/shandysiswandi/newsletter/internal/pkg/idempotency"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/mail"
	"github.com/shandysiswandi/newsletter/internal/pkg/messaging"
	"github.com/shandysiswandi/newsletter/internal/pkg/router"
	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
	"github.com/shandysiswandi/newsletter/internal/pkg/storage"
	"github.com/shandysiswandi/newsletter/internal/pkg/uid"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
)

// configPath resolves $CONFIG_PATH, then the container path, then the
// working directory copy when LOCAL=true.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

func (a *App) initConfig() error {
	cfg, err := config.NewViper(configPath())
	if err != nil {
		return err
	}
	a.config = cfg
	a.onClose("config", func(context.Context) error { return cfg.Close() })

	if tz := cfg.GetString("app.tz"); tz != "" {
		return os.Setenv("TZ", tz)
	}
	return nil
}

func (a *App) initInstrument() error {
	c := a.config
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          c.GetBool("instrument.enabled"),
		ServiceName:      c.GetString("instrument.service_name"),
		ServiceVersion:   c.GetString("instrument.service_version"),
		Environment:      c.GetString("instrument.env"),
		OTLPEndpoint:     c.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       c.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: c.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  c.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       c.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		return err
	}
	a.ins = ins
	a.onClose("instrument", ins.Shutdown)
	return nil
}

func (a *App) initLibraries() (err error) {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.token = uid.NewRandomToken()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))

	if a.validator, err = validator.NewV10Validator(); err != nil {
		return err
	}
	a.uid, err = uid.NewSnowflake()
	return err
}

func (a *App) initDatabase() error {
	pool, err := newDBPool(a.ctx, a.config)
	if err != nil {
		return err
	}
	a.dbConn = pool
	a.onClose("database", func(context.Context) error {
		pool.Close()
		return nil
	})
	return nil
}

func (a *App) initMigration() error {
	if !a.config.GetBool("database.migrate_on_start") {
		return nil
	}
	return migrations.Run(a.ctx, a.dbConn, migrations.CommandUp)
}

func (a *App) initCache() error {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		return err
	}

	rdb := redis.NewClient(opt)
	a.onClose("redis", func(context.Context) error { return rdb.Close() })

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(rdb)
	return nil
}

func (a *App) initMail() error {
	sg, err := mail.NewSendGrid(mail.SendGridConfig{
		BaseURL: a.config.GetString("email_client.base_url"),
		Token:   secret.New(a.config.GetString("email_client.authorization_token")),
		Timeout: time.Duration(a.config.GetInt("email_client.timeout_milliseconds")) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	a.mail = sg
	a.onClose("mail", func(context.Context) error { return sg.Close() })
	return nil
}

func (a *App) initStorage() error {
	str := func(key string) string { return strings.TrimSpace(a.config.GetString(key)) }

	gcsCreds, err := a.credentialsJSON("storage.gcs")
	if err != nil {
		return err
	}

	stg, err := storage.NewFromDriver(a.ctx, str("storage.driver"), storage.FactoryOptions{
		S3: storage.S3Options{
			Region:       str("storage.s3.region"),
			Endpoint:     str("storage.s3.endpoint"),
			AccessKey:    str("storage.s3.access_key"),
			SecretKey:    str("storage.s3.secret_key"),
			SessionToken: str("storage.s3.session_token"),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		GCS: storage.GCSOptions{
			CredentialsJSON: gcsCreds,
			Endpoint:        str("storage.gcs.endpoint"),
		},
		MinIO: storage.MinIOOptions{
			Region:       str("storage.minio.region"),
			Endpoint:     str("storage.minio.endpoint"),
			AccessKey:    str("storage.minio.access_key"),
			SecretKey:    str("storage.minio.secret_key"),
			SessionToken: str("storage.minio.session_token"),
			UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
		},
	})
	if err != nil {
		return err
	}
	a.storage = stg
	if stg != nil {
		a.onClose("storage", func(context.Context) error { return stg.Close() })
	}
	return nil
}

func (a *App) initMessaging() error {
	c := a.config

	pubsubCreds, err := a.credentialsJSON("messaging.pubsub")
	if err != nil {
		return err
	}

	client, err := messaging.NewFromDriver(a.ctx, c.GetString("messaging.driver"), messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:         c.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    c.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: c.GetArray("messaging.nsq.consumer_lookupd_addrs"),
		},
		Kafka: messaging.KafkaConfig{
			Brokers:     c.GetArray("messaging.kafka.brokers"),
			ClientID:    c.GetString("messaging.kafka.client_id"),
			DialTimeout: c.GetSecond("messaging.kafka.dial_timeout_seconds"),
		},
		NATS: messaging.NATSConfig{
			URL:  c.GetString("messaging.nats.url"),
			Name: c.GetString("messaging.nats.name"),
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:       c.GetString("messaging.pubsub.project_id"),
			CredentialsJSON: pubsubCreds,
			Endpoint:        strings.TrimSpace(c.GetString("messaging.pubsub.endpoint")),
		},
	})
	if err != nil {
		return err
	}
	a.messaging = client
	a.onClose("messaging", func(context.Context) error { return client.Close() })
	return nil
}

// credentialsJSON reads a service account key from <prefix>.credentials_json
// (base64) or, when that is empty, from the file at <prefix>.credentials_file.
func (a *App) credentialsJSON(prefix string) ([]byte, error) {
	if v := a.config.GetBinary(prefix + ".credentials_json"); len(v) > 0 {
		return v, nil
	}

	path := strings.TrimSpace(a.config.GetString(prefix + ".credentials_file"))
	if path == "" {
		return nil, nil
	}

	// #nosec G304 -- path comes from the service configuration.
	return os.ReadFile(path)
}

func (a *App) initHTTPServer() error {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   a.config.GetArray("app.server.cors"),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	addr := a.config.GetString("app.server.http.address")
	if addr == "" {
		return errors.New("app.server.http.address is empty")
	}

	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
	return nil
}
