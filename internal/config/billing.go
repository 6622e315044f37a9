package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingSettings are the operator-tunable billing and security knobs.
// They live in billing.yml so they can change without a redeploy.
type BillingSettings struct {
	Currency             string `mapstructure:"currency"`
	ReceiptPrefix        string `mapstructure:"receiptPrefix"`
	LockoutThreshold     int    `mapstructure:"lockoutThreshold"`
	LockoutWindowMinutes int    `mapstructure:"lockoutWindowMinutes"`
}

func DefaultBillingSettings() BillingSettings {
	return BillingSettings{
		Currency:             "INR",
		ReceiptPrefix:        "RCP",
		LockoutThreshold:     5,
		LockoutWindowMinutes: 30,
	}
}

// BillingSettingsHolder holds the current settings and hot-reloads them
// when the config file changes on disk.
type BillingSettingsHolder struct {
	current atomic.Value // holds BillingSettings
}

func NewBillingSettingsHolder() (*BillingSettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/societyhub/config")
	v.AddConfigPath("/etc/societyhub")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SOCIETYHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultBillingSettings()
		v.SetDefault("billing.currency", defaults.Currency)
		v.SetDefault("billing.receiptPrefix", defaults.ReceiptPrefix)
		v.SetDefault("billing.lockoutThreshold", defaults.LockoutThreshold)
		v.SetDefault("billing.lockoutWindowMinutes", defaults.LockoutWindowMinutes)
	}

	var settings BillingSettings
	if err := v.UnmarshalKey("billing", &settings); err != nil {
		return nil, err
	}
	if err := validateBillingSettings(settings); err != nil {
		return nil, err
	}

	holder := &BillingSettingsHolder{}
	holder.current.Store(settings)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingSettings
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-settings] reload failed: %v", err)
			return
		}
		if err := validateBillingSettings(updated); err != nil {
			log.Printf("[billing-settings] invalid settings ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-settings] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *BillingSettingsHolder) Get() BillingSettings {
	return h.current.Load().(BillingSettings)
}

// NewStaticBillingSettingsHolder returns a holder with fixed settings, for tests.
func NewStaticBillingSettingsHolder(settings BillingSettings) *BillingSettingsHolder {
	holder := &BillingSettingsHolder{}
	holder.current.Store(settings)
	return holder
}

func validateBillingSettings(settings BillingSettings) error {
	if strings.TrimSpace(settings.ReceiptPrefix) == "" {
		return errors.New("billing.receiptPrefix cannot be empty")
	}
	if settings.LockoutThreshold <= 0 {
		return errors.New("billing.lockoutThreshold must be positive")
	}
	if settings.LockoutWindowMinutes <= 0 {
		return errors.New("billing.lockoutWindowMinutes must be positive")
	}
	return nil
}
