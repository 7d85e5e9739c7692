package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shepherd-app/shepherd/internal/api"
	dbstore "github.com/shepherd-app/shepherd/internal/db"
	"github.com/shepherd-app/shepherd/internal/middleware"
	"github.com/shepherd-app/shepherd/internal/utils"
)

func main() {
	addr := utils.SafeEnv("SHEPHERD_ADDR", ":8080")
	commit := os.Getenv("SHEPHERD_COMMIT")
	buildTime := os.Getenv("SHEPHERD_BUILD_TIME")

	store, err := openStore()
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	mux := http.NewServeMux()
	api.NewRouter(store).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Shepherd API",
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	// Dashboard static files, if bundled alongside the API.
	if staticDir := os.Getenv("SHEPHERD_STATIC_DIR"); staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	handler := middleware.CORS(middleware.SecureHeaders(middleware.NoStore(middleware.WithAuth(mux))))

	log.Printf("Shepherd server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore returns the sqlite-backed store when SHEPHERD_SQLITE_PATH is
// set, otherwise a non-persistent in-memory store.
func openStore() (api.Store, error) {
	sqlitePath := os.Getenv("SHEPHERD_SQLITE_PATH")
	if sqlitePath == "" {
		log.Printf("SHEPHERD_SQLITE_PATH not set, using in-memory store")
		return api.NewMemoryStore(), nil
	}
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		return nil, err
	}
	sqldb, err := sql.Open("sqlite3", sqlitePath)
	if err != nil {
		return nil, err
	}
	if err := dbstore.RunMigrations(sqldb, os.Getenv("SHEPHERD_MIGRATIONS_DIR")); err != nil {
		return nil, err
	}
	return dbstore.NewStore(sqldb)
}
