package chain

/*
 * Dual-licensed under Apache-2.0 and MIT.
 *
 * You can get a copy of the Apache License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * You can also get a copy of the MIT License at
 *
 * http://opensource.org/licenses/MIT
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// ParseEther parses a decimal ether amount such as "1.2" into wei.
//
// @input - ether string.
//
// @output - wei, error.
func ParseEther(s string) (*big.Int, error) {
	r, ok := big.NewRat(0, 1).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("fail to parse ether amount %v", s)
	}
	r.Mul(r, big.NewRat(0, 1).SetInt(big.NewInt(params.Ether)))
	if !r.IsInt() {
		return nil, fmt.Errorf("ether amount %v has more than 18 decimals", s)
	}
	return big.NewInt(0).Set(r.Num()), nil
}

// FormatEther formats wei as a decimal ether amount.
//
// @input - wei.
//
// @output - ether string.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	r := big.NewRat(0, 1).SetFrac(wei, big.NewInt(params.Ether))
	s := r.FloatString(18)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
