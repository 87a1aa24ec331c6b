package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
)

var (
	RunAddress        string
	DatabaseURI       string
	RedisURL          string
	LogLevel          string
	APIToken          string
	SupportUsername   string
	CardNumber        string
	PhoneNumber       string
	Timezone          string
	SeedFile          string
	JWTSecret         string
	AdminPasswordHash string

	AdminIDs             []int64
	RestrictedCategories []string

	ExchangeRate     decimal.Decimal
	DeliveryFeePerKm decimal.Decimal
	MaxDeliveryFee   decimal.Decimal

	MinDeliveryTime      time.Duration
	AdminResponseTimeout time.Duration
	SweepInterval        time.Duration
	ItemsPerBatch        int
)

var parseErrs []error

func ParseFlags() {
	parseErrs = parse(flag.CommandLine, os.Args[1:], os.Getenv)
}

func parse(fs *flag.FlagSet, args []string, getenv func(string) string) []error {
	var (
		adminIDs      string
		restricted    string
		exchangeRate  string
		feePerKm      string
		maxFee        string
		minDelivery   int
		adminTimeout  int
		sweepInterval time.Duration
	)

	fs.StringVar(&RunAddress, "a", ":8080", "address to run admin api")
	fs.StringVar(&DatabaseURI, "d", "", "database uri")
	fs.StringVar(&RedisURL, "redis", "", "redis url for sessions")
	fs.StringVar(&LogLevel, "l", "info", "log level")
	fs.StringVar(&APIToken, "token", "", "telegram bot token")
	fs.StringVar(&adminIDs, "admins", "", "comma separated admin ids")
	fs.StringVar(&SupportUsername, "support", "", "support contact")
	fs.StringVar(&CardNumber, "card", "", "card number for coin top-ups")
	fs.StringVar(&PhoneNumber, "phone", "", "support phone number")
	fs.StringVar(&exchangeRate, "rate", "1", "UZS per coin")
	fs.StringVar(&restricted, "restricted", "", "comma separated age-restricted categories")
	fs.IntVar(&minDelivery, "min-delivery", 40, "minimum delivery lead time, minutes")
	fs.IntVar(&adminTimeout, "admin-timeout", 30, "admin response timeout, minutes")
	fs.IntVar(&ItemsPerBatch, "batch", 5, "items per page")
	fs.StringVar(&feePerKm, "fee-per-km", "5.0", "delivery fee per km")
	fs.StringVar(&maxFee, "max-fee", "40.0", "delivery fee cap")
	fs.StringVar(&Timezone, "tz", "Asia/Tashkent", "store time zone")
	fs.StringVar(&SeedFile, "seed", "", "catalog seed yaml")
	fs.StringVar(&JWTSecret, "jwt-secret", "", "admin api token secret")
	fs.StringVar(&AdminPasswordHash, "admin-password-hash", "", "bcrypt hash of the admin api password")
	fs.DurationVar(&sweepInterval, "sweep", 5*time.Minute, "timeout sweep interval")
	if err := fs.Parse(args); err != nil {
		return []error{err}
	}

	envString := func(name string, dst *string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	envString("RUN_ADDRESS", &RunAddress)
	envString("DATABASE_URI", &DatabaseURI)
	envString("REDIS_URL", &RedisURL)
	envString("LOG_LEVEL", &LogLevel)
	envString("API_TOKEN", &APIToken)
	envString("ADMIN_ID", &adminIDs)
	envString("SUPPORT_USERNAME", &SupportUsername)
	envString("CARD_NUMBER", &CardNumber)
	envString("PHONE_NUMBER", &PhoneNumber)
	envString("EXCHANGE_RATE", &exchangeRate)
	envString("RESTRICTED_CATEGORIES", &restricted)
	envString("DELIVERY_FEE_PER_KM", &feePerKm)
	envString("MAX_DELIVERY_FEE", &maxFee)
	envString("TIMEZONE", &Timezone)
	envString("SEED_FILE", &SeedFile)
	envString("JWT_SECRET", &JWTSecret)
	envString("ADMIN_PASSWORD_HASH", &AdminPasswordHash)

	var errs []error
	envInt := func(name string, dst *int) {
		v := getenv(name)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = n
	}
	envInt("MIN_DELIVERY_TIME", &minDelivery)
	envInt("ADMIN_RESPONSE_TIMEOUT", &adminTimeout)
	envInt("ITEMS_PER_BATCH", &ItemsPerBatch)

	if v := getenv("SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SWEEP_INTERVAL: %w", err))
		} else {
			sweepInterval = d
		}
	}

	MinDeliveryTime = time.Duration(minDelivery) * time.Minute
	AdminResponseTimeout = time.Duration(adminTimeout) * time.Minute
	SweepInterval = sweepInterval

	AdminIDs = nil
	for _, field := range splitList(adminIDs) {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("ADMIN_ID %q: %w", field, err))
			continue
		}
		AdminIDs = append(AdminIDs, id)
	}
	RestrictedCategories = splitList(restricted)

	for _, d := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"EXCHANGE_RATE", exchangeRate, &ExchangeRate},
		{"DELIVERY_FEE_PER_KM", feePerKm, &DeliveryFeePerKm},
		{"MAX_DELIVERY_FEE", maxFee, &MaxDeliveryFee},
	} {
		v, err := decimal.NewFromString(d.raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
			continue
		}
		*d.dst = v
	}
	return errs
}

func splitList(s string) []string {
	var out []string
	for _, field := range strings.Split(s, ",") {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}
	return out
}

// Validate reports unparsable values and missing required settings.
func Validate() error {
	errs := append([]error(nil), parseErrs...)
	if APIToken == "" {
		errs = append(errs, errors.New("API_TOKEN is required"))
	}
	if len(AdminIDs) == 0 {
		errs = append(errs, errors.New("ADMIN_ID is required"))
	}
	if ItemsPerBatch <= 0 {
		errs = append(errs, errors.New("ITEMS_PER_BATCH must be positive"))
	}
	if !ExchangeRate.IsPositive() {
		errs = append(errs, errors.New("EXCHANGE_RATE must be positive"))
	}
	if DeliveryFeePerKm.IsNegative() || MaxDeliveryFee.IsNegative() {
		errs = append(errs, errors.New("delivery fees must not be negative"))
	}
	if _, err := time.LoadLocation(Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}
