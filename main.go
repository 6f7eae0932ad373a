package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/pollberry/api.pollberry.app/configure"
	"github.com/pollberry/api.pollberry.app/polls"
	"github.com/pollberry/api.pollberry.app/server"
	"github.com/pollberry/api.pollberry.app/server/rest"
	"github.com/pollberry/api.pollberry.app/store"
	"github.com/pollberry/api.pollberry.app/users"
	"github.com/pollberry/api.pollberry.app/utils"
	"github.com/pollberry/api.pollberry.app/visitors"
)

func main() {
	log.Infoln("Application Starting...")

	configCode := configure.Config.GetInt("exit_code")
	if configCode > 125 || configCode < 0 {
		log.Warnf("Invalid exit code specified in config (%v), using 0 as new exit code.", configCode)
		configCode = 0
	}

	c := make(chan os.Signal)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	pollStore := store.New()
	if err := pollStore.Seed(); err != nil {
		log.Fatalf("seed, err=%v", err)
	}

	userStore := users.NewStore()
	if _, err := userStore.Create("demo", "demo@pollberry.app", "111111"); err != nil {
		log.Warnf("demo user, err=%v", err)
	}

	ledger := visitors.NewLedger()
	engine := polls.NewEngine(pollStore, ledger)

	secret := configure.Config.GetString("token_secret")
	if secret == "" {
		var err error
		secret, err = utils.GenerateRandomString(32)
		if err != nil {
			log.Fatalf("token secret, err=%v", err)
		}
		log.Warnln("No token secret configured, generated one. Tokens will not survive a restart.")
	}

	s := server.NewServer(rest.Dependencies{
		Store:  pollStore,
		Users:  userStore,
		Engine: engine,

		TokenSecret: secret,
		DemoDelay:   time.Duration(configure.Config.GetInt("demo_delay_ms")) * time.Millisecond,
	})

	go func() {
		sig := <-c
		log.Infof("sig=%v, gracefully shutting down...", sig)
		start := time.Now().UnixNano()

		wg := sync.WaitGroup{}
		wg.Add(1)

		go func() {
			defer wg.Done()
			if err := s.Shutdown(); err != nil {
				log.Errorf("server, shutdown=%v", err)
			}
		}()

		wg.Wait()

		log.Infof("Shutdown took, %.2fms", float64(time.Now().UnixNano()-start)/10e5)
		os.Exit(configCode)
	}()

	log.Infoln("Application Started.")

	select {}
}
