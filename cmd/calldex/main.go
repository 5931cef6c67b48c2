package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calldex/internal/auth"
	"calldex/internal/config"
	"calldex/internal/db"
	httpx "calldex/internal/http"
	"calldex/internal/seed"
)

func main() {
	seedOnly := flag.Bool("seed", false, "populate sample data and exit")
	flag.Parse()

	cfg, _ := config.Load()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal(err)
	}

	if *seedOnly {
		res := seed.Run(context.Background(), gdb)
		for _, e := range res.Errors {
			log.Printf("seed: %v\n", e)
		}
		log.Printf("seeded %d users, %d contacts, %d phone book entries, %d reports (%d item errors)\n",
			res.Users, res.Contacts, res.Entries, res.Reports, len(res.Errors))
		if len(res.Errors) > 0 {
			os.Exit(1)
		}
		return
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	r := httpx.NewRouter(cfg, gdb, jwtSvc)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
