package web3

import (
	"fmt"
	"math/big"
	"strings"
)

// weiPerEth is the base-unit scale of the chain's native asset.
var weiPerEth = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// EthToWei converts a decimal ETH amount to wei. The conversion is exact:
// amounts with more than 18 fractional digits are rejected rather than
// rounded.
func EthToWei(amount string) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("negative amount %q", amount)
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 18 {
		return nil, fmt.Errorf("amount %q exceeds 18 decimal places", amount)
	}
	// both parts must be bare digits; SetString would accept signs
	if !allDigits(intPart) || (fracPart != "" && !allDigits(fracPart)) {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}

	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	wei := new(big.Int).Mul(whole, weiPerEth)

	if fracPart != "" {
		// pad to 18 digits so "5" means 0.5 ETH, not 5 wei
		frac, ok := new(big.Int).SetString(fracPart+strings.Repeat("0", 18-len(fracPart)), 10)
		if !ok {
			return nil, fmt.Errorf("invalid amount %q", amount)
		}
		wei.Add(wei, frac)
	}
	return wei, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// WeiToEth converts a wei amount to a decimal ETH string with trailing zeros
// trimmed, keeping at least one fractional digit ("1.0", "2.5").
func WeiToEth(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}

	sign := ""
	abs := new(big.Int).Set(wei)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}

	whole, frac := new(big.Int).QuoRem(abs, weiPerEth, new(big.Int))
	fracDigits := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	if fracDigits == "" {
		fracDigits = "0"
	}
	return sign + whole.String() + "." + fracDigits
}

// WeiToEthFloat converts a wei amount to a float64 ETH value. Precision is
// bounded by float64; use WeiToEth where exactness matters.
func WeiToEthFloat(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), new(big.Float).SetInt(weiPerEth)).Float64()
	return f
}
