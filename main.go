package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	analysis "Keystone/internal/analysis"
	auth "Keystone/internal/auth"
	combos "Keystone/internal/calc/combos"
	connections "Keystone/internal/calc/connections"
	footing "Keystone/internal/calc/footing"
	live "Keystone/internal/calc/live"
	piles "Keystone/internal/calc/piles"
	snow "Keystone/internal/calc/snow"
	spectrum "Keystone/internal/calc/spectrum"
	wind "Keystone/internal/calc/wind"
	repo "Keystone/internal/repo"
	report "Keystone/internal/report"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, db *sql.DB, log *zap.Logger) {
	store := repo.NewPostgresDB(db)

	tokenKey := os.Getenv("TOKEN_KEY")
	if tokenKey == "" {
		log.Fatal("TOKEN_KEY environment variable is not set")
	}

	authEnv := &auth.Authenv{JWTkey: []byte(tokenKey), Repo: store, Log: log}
	limiter := auth.NewIPRateLimiter(1, 3)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	windH := &wind.Handler{}
	snowH := &snow.Handler{}
	liveH := &live.Handler{}
	spectrumH := &spectrum.Handler{}
	combosH := &combos.Handler{}
	connectionsH := &connections.Handler{}
	footingH := &footing.Handler{}
	pilesH := &piles.Handler{}
	reportH := &report.Handler{}

	secureApi.HandleFunc("/tools/wind/calc", windH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/snow/calc", snowH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/live/calc", liveH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/spectrum/calc", spectrumH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/combos/calc", combosH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/connections/bolts", connectionsH.Bolts).Methods("POST")
	secureApi.HandleFunc("/tools/connections/welds", connectionsH.Welds).Methods("POST")
	secureApi.HandleFunc("/tools/footing/check", footingH.Check).Methods("POST")
	secureApi.HandleFunc("/tools/footing/bearing", footingH.Bearing).Methods("POST")
	secureApi.HandleFunc("/tools/piles/calc", pilesH.Calculate).Methods("POST")

	runner := analysis.NewRunner(log)
	analysisH := &analysis.Handler{Runner: runner, Repo: store, Log: log}
	secureApi.HandleFunc("/analysis/run", analysisH.Run).Methods("POST")
	secureApi.HandleFunc("/analysis/queue", analysisH.Queue).Methods("POST")
	secureApi.HandleFunc("/analysis/get", analysisH.Get).Methods("GET")

	secureApi.HandleFunc("/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/report/export", reportH.Export).Methods("POST")
	secureApi.HandleFunc("/report/import", reportH.Import).Methods("POST")

	mainFileServer := http.FileServer(http.Dir("./static/main"))
	mux.PathPrefix("/").
		Handler(mainFileServer)
}
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file loaded", zap.Error(err))
	}

	db := auth.InitDB(log)
	defer db.Close()
	mux := mux.NewRouter()
	log.Info("starting server", zap.String("addr", ":443"))
	HandleList(mux, db, log)
	handler := CORS(mux)

	server := &http.Server{
		Addr:    ":443",
		Handler: handler,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS("server.crt", "server.key"); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown", zap.Error(err))
	}
	log.Info("server stopped")

	wg.Wait()
}
