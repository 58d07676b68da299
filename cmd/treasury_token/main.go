// Command treasury_token mints a development bearer token for the treasury API.
//
//	JWT_SECRET=dev go run ./cmd/treasury_token --user alice --role MANAGER
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	_ = godotenv.Load()

	flags := pflag.NewFlagSet("treasury_token", pflag.ExitOnError)
	flags.String("user", "", "user id placed in the subject claim")
	flags.String("role", string(domain.RoleStaff), "treasury role: ADMIN, MANAGER or STAFF")
	flags.Duration("ttl", 12*time.Hour, "token lifetime")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	for _, key := range []string{"JWT_SECRET", "JWT_ISSUER", "IS_PRODUCTION"} {
		_ = v.BindEnv(key)
	}
	if err := v.BindPFlags(flags); err != nil {
		slog.Error("Failed to bind flags", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if v.GetBool("IS_PRODUCTION") {
		slog.Error("Refusing to mint tokens in production")
		os.Exit(1)
	}

	role, err := domain.ParseRole(v.GetString("role"))
	if err != nil {
		slog.Error("Invalid role", slog.String("error", err.Error()))
		os.Exit(1)
	}

	token, err := utils.GenerateActorJWT(
		domain.Actor{UserID: v.GetString("user"), Role: role},
		v.GetString("JWT_SECRET"),
		v.GetDuration("ttl"),
		v.GetString("JWT_ISSUER"),
	)
	if err != nil {
		slog.Error("Failed to mint token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
