package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestCalcYTM(t *testing.T) {
	out, err := run(t,
		"--quote", "100.83075469629",
		"--periods", "6",
		"--coupon", "0.045",
		"--tradedate", "2007-08-30",
		"--prevcoupondate", "2007-05-15",
		"--nextcoupondate", "2007-11-15",
		"--holiday", "03-09-2007",
		"--facevalue", "1000000",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Settlement Date: 2007-08-31")
	assert.Contains(t, out, "Dirty Price: 102.151407")
	assert.Contains(t, out, "Yield to Maturity: 4.6923")
	assert.Contains(t, out, "Modified Duration: 2.4873")
	assert.Contains(t, out, "Invoice Amount: $1,021,514.07")
}

func TestCalcYTM_MissingFlags(t *testing.T) {
	_, err := run(t, "--quote", "99-16")
	assert.Error(t, err)
}

func TestCalcYTM_InvalidQuote(t *testing.T) {
	_, err := run(t,
		"--quote", "99-16-1",
		"--periods", "4",
		"--coupon", "0.04",
		"--tradedate", "2007-08-30",
		"--prevcoupondate", "2007-08-31",
		"--nextcoupondate", "2008-02-29",
	)
	assert.ErrorContains(t, err, "invalid quote")
}
