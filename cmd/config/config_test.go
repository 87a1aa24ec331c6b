package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(name string) string { return values[name] }
}

func TestParse_Defaults(t *testing.T) {
	errs := parse(flag.NewFlagSet("test", flag.ContinueOnError), nil, env(nil))
	require.Empty(t, errs)

	assert.Equal(t, ":8080", RunAddress)
	assert.Equal(t, 40*time.Minute, MinDeliveryTime)
	assert.Equal(t, 30*time.Minute, AdminResponseTimeout)
	assert.Equal(t, 5*time.Minute, SweepInterval)
	assert.Equal(t, 5, ItemsPerBatch)
	assert.Equal(t, "5", DeliveryFeePerKm.String())
	assert.Equal(t, "40", MaxDeliveryFee.String())
	assert.Equal(t, "Asia/Tashkent", Timezone)
	assert.Empty(t, AdminIDs)
}

func TestParse_EnvOverridesFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	errs := parse(fs, []string{"-a", ":9000", "-admins", "5"}, env(map[string]string{
		"RUN_ADDRESS":           ":7000",
		"ADMIN_ID":              "1, 2,3",
		"API_TOKEN":             "123:abc",
		"RESTRICTED_CATEGORIES": "alcohol,tobacco",
		"EXCHANGE_RATE":         "12500",
		"MIN_DELIVERY_TIME":     "60",
		"SWEEP_INTERVAL":        "1m",
	}))
	require.Empty(t, errs)

	assert.Equal(t, ":7000", RunAddress)
	assert.Equal(t, []int64{1, 2, 3}, AdminIDs)
	assert.Equal(t, []string{"alcohol", "tobacco"}, RestrictedCategories)
	assert.Equal(t, "12500", ExchangeRate.String())
	assert.Equal(t, time.Hour, MinDeliveryTime)
	assert.Equal(t, time.Minute, SweepInterval)
}

func TestParse_InvalidValues(t *testing.T) {
	errs := parse(flag.NewFlagSet("test", flag.ContinueOnError), nil, env(map[string]string{
		"ADMIN_ID":        "1,boss",
		"EXCHANGE_RATE":   "lots",
		"ITEMS_PER_BATCH": "five",
		"SWEEP_INTERVAL":  "often",
	}))
	assert.Len(t, errs, 4)
	assert.Equal(t, []int64{1}, AdminIDs)
}

func TestValidate(t *testing.T) {
	parseErrs = parse(flag.NewFlagSet("test", flag.ContinueOnError), nil, env(nil))
	err := Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_TOKEN is required")
	assert.Contains(t, err.Error(), "ADMIN_ID is required")

	parseErrs = parse(flag.NewFlagSet("test", flag.ContinueOnError), nil, env(map[string]string{
		"API_TOKEN": "123:abc",
		"ADMIN_ID":  "1",
	}))
	assert.NoError(t, Validate())
}
