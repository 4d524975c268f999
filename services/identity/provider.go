package identity

import (
	"fmt"

	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/database"
	"github.com/tech-arch1tect/cadence/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type ProviderParams struct {
	fx.In

	Config *config.Config
	DB     *gorm.DB `optional:"true"`
	Logger *logging.Service
}

func ProvideIdentityProvider(p ProviderParams) (Provider, error) {
	cfg := p.Config.Identity
	logger := p.Logger.Named("identity")

	switch cfg.Provider {
	case "local":
		if p.DB == nil {
			return nil, fmt.Errorf("local identity provider requires a database")
		}
		return NewLocalProvider(p.DB, cfg.BcryptCost, logger), nil
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
			return nil, fmt.Errorf("IDENTITY_SUPABASE_URL and IDENTITY_SUPABASE_SERVICE_KEY are required")
		}
		return NewSupabaseProvider(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.PageSize, cfg.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("unsupported identity provider: %s", cfg.Provider)
	}
}

var Module = fx.Options(
	database.WithModels(&Account{}),
	fx.Provide(ProvideIdentityProvider),
)
