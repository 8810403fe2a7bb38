package config

import "time"

type Config struct {
	Web   Web
	DB    DB
	Cors  Cors
	Auth  Auth
	Oauth Oauth
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`

	// SiteURL is the public base URL of the frontend; the
	// enroll-and-redirect flow resolves its targets against it.
	SiteURL string `conf:"default:http://localhost:3000"`
}

type DB struct {
	User           string        `conf:"default:postgres"`
	Password       string        `conf:"default:postgres,mask"`
	Host           string        `conf:"default:localhost:5432"`
	Name           string        `conf:"default:coursehub"`
	DisableTLS     bool          `conf:"default:true"`
	ConnectTimeout time.Duration `conf:"default:30s"`
}

type Cors struct {
	Origin string
}

type Auth struct {
	SessionLifetime time.Duration `conf:"default:24h"`

	// Throttling applied to signup and login attempts, per client address.
	LoginRateBurst    int           `conf:"default:5"`
	LoginRateInterval time.Duration `conf:"default:1s"`
	LoginRateExpiry   int           `conf:"default:60"`
}

type Oauth struct {
	DiscoveryTimeout time.Duration `conf:"default:30s"`
	LoginRedirectURL string        `conf:"default:http://localhost:3000"`
	Google           Provider
}

type Provider struct {
	Client      string
	Secret      string `conf:"mask"`
	URL         string `conf:"default:https://accounts.google.com"`
	RedirectURL string `conf:"default:http://localhost:8000/auth/oauth-callback/google"`
}
