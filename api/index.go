package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/go-portfolio/pkg/app"
	"github.com/wadjakorntonsri/go-portfolio/pkg/config"
	"github.com/wadjakorntonsri/go-portfolio/pkg/logging"
)

var mux http.Handler

// Serverless instances don't run the pollers: banner reads fall through to
// a direct upstream fetch when the cache is still empty.
func init() {
	cfg := config.Load()

	logger, err := logging.New(cfg)
	if err != nil {
		panic(err)
	}

	// Note: On Vercel, a file database is ephemeral unless DATABASE_URL points at libsql/Turso
	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		panic(err)
	}
	mux = a.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
