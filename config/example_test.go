package config_test

import (
	"context"
	"fmt"
	"log"

	"github.com/sagarc03/selcdn/clientcli"
	"github.com/sagarc03/selcdn/config"
)

func ExampleLoad() {
	profile := &clientcli.Profile{Name: "prod", Login: "12345", Password: "secret"}

	cfg, err := config.Load(profile, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Auth: %s as %s, timeout %s\n", cfg.Auth.URL, cfg.Auth.Login, cfg.HTTP.Timeout)
	// Output: Auth: https://auth.selcdn.ru/ as 12345, timeout 30s
}

func ExampleWithContext() {
	cfg, _ := config.Load(&clientcli.Profile{Login: "12345", Password: "secret"}, nil)

	ctx := config.WithContext(context.Background(), cfg)

	retrieved, err := config.FromContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Retrieved login: %s\n", retrieved.Auth.Login)
	// Output: Retrieved login: 12345
}
