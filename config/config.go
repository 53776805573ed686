package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/bellapacxx/lottery-backend/services"
)

// Config is the full runtime configuration, read from the environment (or a
// .env file) with defaults for every engine parameter. Token amounts are in
// whole tokens.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Port        string `mapstructure:"PORT"`
	OracleURL   string `mapstructure:"ORACLE_URL"`
	CORSOrigin  string `mapstructure:"CORS_ORIGIN"`

	OwnerAddress   string `mapstructure:"OWNER_ADDRESS"`
	CreatorAddress string `mapstructure:"CREATOR_ADDRESS"`

	MinStake             int64 `mapstructure:"MIN_STAKE"`
	MaxStakePerUser      int64 `mapstructure:"MAX_STAKE_PER_USER"`
	MinStakeDurationMins int64 `mapstructure:"MIN_STAKE_DURATION_MINUTES"`

	RoundDurationMins     int64 `mapstructure:"ROUND_DURATION_MINUTES"`
	MinBet                int64 `mapstructure:"MIN_BET"`
	MaxBetPerUserPerRound int64 `mapstructure:"MAX_BET_PER_USER_PER_ROUND"`
	MinStakeAmount        int64 `mapstructure:"MIN_STAKE_AMOUNT"`
	HouseEdgeBps          int64 `mapstructure:"HOUSE_EDGE_BPS"`
	MaxPayoutPerRound     int64 `mapstructure:"MAX_PAYOUT_PER_ROUND"`
	EmergencyGraceMins    int64 `mapstructure:"EMERGENCY_DRAW_GRACE_MINUTES"`

	ConsecutivePlayRequirement int   `mapstructure:"CONSECUTIVE_PLAY_REQUIREMENT"`
	GiftCooldownMins           int64 `mapstructure:"GIFT_COOLDOWN_MINUTES"`
	GiftRecipientsPerRound     int   `mapstructure:"GIFT_RECIPIENTS_PER_ROUND"`
	GiftCreatorAmount          int64 `mapstructure:"GIFT_CREATOR_AMOUNT"`
	GiftUserAmount             int64 `mapstructure:"GIFT_USER_AMOUNT"`

	TimelockDelayMins int64 `mapstructure:"TIMELOCK_DELAY_MINUTES"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	defaults := services.DefaultParams()

	// Viper only resolves env vars for keys it already knows, so keys
	// without a real default still need to be registered.
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("ORACLE_URL", "")

	viper.SetDefault("PORT", "4000")
	viper.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	viper.SetDefault("OWNER_ADDRESS", "owner")
	viper.SetDefault("CREATOR_ADDRESS", defaults.GiftCreator)

	viper.SetDefault("MIN_STAKE", 10)
	viper.SetDefault("MAX_STAKE_PER_USER", 1_000_000)
	viper.SetDefault("MIN_STAKE_DURATION_MINUTES", int64(defaults.MinStakeDuration/time.Minute))

	viper.SetDefault("ROUND_DURATION_MINUTES", int64(defaults.RoundDuration/time.Minute))
	viper.SetDefault("MIN_BET", 1)
	viper.SetDefault("MAX_BET_PER_USER_PER_ROUND", 1000)
	viper.SetDefault("MIN_STAKE_AMOUNT", 10)
	viper.SetDefault("HOUSE_EDGE_BPS", defaults.HouseEdgeBps)
	viper.SetDefault("MAX_PAYOUT_PER_ROUND", 1_000_000)
	viper.SetDefault("EMERGENCY_DRAW_GRACE_MINUTES", int64(defaults.EmergencyDrawGrace/time.Minute))

	viper.SetDefault("CONSECUTIVE_PLAY_REQUIREMENT", defaults.ConsecutivePlayRequirement)
	viper.SetDefault("GIFT_COOLDOWN_MINUTES", int64(defaults.GiftCooldown/time.Minute))
	viper.SetDefault("GIFT_RECIPIENTS_PER_ROUND", defaults.GiftRecipientsPerRound)
	viper.SetDefault("GIFT_CREATOR_AMOUNT", 100)
	viper.SetDefault("GIFT_USER_AMOUNT", 10)

	viper.SetDefault("TIMELOCK_DELAY_MINUTES", int64(defaults.TimelockDelay/time.Minute))

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Params converts the flat env config into engine parameters.
func (c Config) Params() services.Params {
	return services.Params{
		MinStake:         services.Tokens(c.MinStake),
		MaxStakePerUser:  services.Tokens(c.MaxStakePerUser),
		MinStakeDuration: time.Duration(c.MinStakeDurationMins) * time.Minute,

		RoundDuration:         time.Duration(c.RoundDurationMins) * time.Minute,
		MinBet:                services.Tokens(c.MinBet),
		MaxBetPerUserPerRound: services.Tokens(c.MaxBetPerUserPerRound),
		MinStakeAmount:        services.Tokens(c.MinStakeAmount),
		HouseEdgeBps:          c.HouseEdgeBps,
		MaxPayoutPerRound:     services.Tokens(c.MaxPayoutPerRound),
		EmergencyDrawGrace:    time.Duration(c.EmergencyGraceMins) * time.Minute,

		ConsecutivePlayRequirement: c.ConsecutivePlayRequirement,
		GiftCooldown:               time.Duration(c.GiftCooldownMins) * time.Minute,
		GiftRecipientsPerRound:     c.GiftRecipientsPerRound,
		GiftCreatorAmount:          services.Tokens(c.GiftCreatorAmount),
		GiftUserAmount:             services.Tokens(c.GiftUserAmount),
		GiftCreator:                c.CreatorAddress,

		TimelockDelay: time.Duration(c.TimelockDelayMins) * time.Minute,
	}
}
