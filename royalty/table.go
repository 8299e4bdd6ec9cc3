package royalty

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
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	golock "github.com/viney-shih/go-lock"
)

const (
	// BasisPointDivisor is 100% in basis points.
	BasisPointDivisor = 10000
)

// Rule is a share of a sale owed to a recipient, in basis points.
type Rule struct {
	Recipient   common.Address
	BasisPoints uint64
}

// TableResolver is a Resolver answering from locally configured rules.
// Rules are set per collection and can be overridden for a single token.
type TableResolver struct {
	lock golock.RWMutex

	// collection -> rules
	collections map[common.Address][]Rule

	// collection -> token id -> rules
	tokens map[common.Address]map[string][]Rule
}

// NewTableResolver creates a new table resolver.
//
// @output - table resolver.
func NewTableResolver() *TableResolver {
	return &TableResolver{
		lock:        golock.NewCASMutex(),
		collections: make(map[common.Address][]Rule),
		tokens:      make(map[common.Address]map[string][]Rule),
	}
}

// SetCollectionRules sets the rules of a collection. Empty rules remove the entry.
//
// @input - context, collection, rules.
//
// @output - error.
func (t *TableResolver) SetCollectionRules(ctx context.Context, collection common.Address, rules []Rule) error {
	if err := checkRules(rules); err != nil {
		return err
	}
	if !t.lock.TryLockWithContext(ctx) {
		log.Debugf("Fail to obtain write lock over table")
		return fmt.Errorf("fail to obtain write lock over table")
	}
	defer t.lock.Unlock()
	if len(rules) == 0 {
		delete(t.collections, collection)
		return nil
	}
	t.collections[collection] = append([]Rule{}, rules...)
	return nil
}

// SetTokenRules sets the rules of a single token, overriding the collection rules.
// Nil rules remove the override.
//
// @input - context, collection, token id, rules.
//
// @output - error.
func (t *TableResolver) SetTokenRules(ctx context.Context, collection common.Address, tokenID *big.Int, rules []Rule) error {
	if tokenID == nil {
		return fmt.Errorf("nil token id")
	}
	if err := checkRules(rules); err != nil {
		return err
	}
	if !t.lock.TryLockWithContext(ctx) {
		log.Debugf("Fail to obtain write lock over table")
		return fmt.Errorf("fail to obtain write lock over table")
	}
	defer t.lock.Unlock()
	if rules == nil {
		if tokens, ok := t.tokens[collection]; ok {
			delete(tokens, tokenID.String())
			if len(tokens) == 0 {
				delete(t.tokens, collection)
			}
		}
		return nil
	}
	tokens, ok := t.tokens[collection]
	if !ok {
		tokens = make(map[string][]Rule)
		t.tokens[collection] = tokens
	}
	tokens[tokenID.String()] = append([]Rule{}, rules...)
	return nil
}

// RoyaltiesFor gets the royalties owed on a sale.
//
// @input - context, registry address, collection, token id, sale value.
//
// @output - royalties, error.
func (t *TableResolver) RoyaltiesFor(ctx context.Context, registry common.Address, collection common.Address, tokenID *big.Int, value *big.Int) ([]Royalty, error) {
	if registry == (common.Address{}) {
		return []Royalty{}, nil
	}
	if tokenID == nil || value == nil {
		return nil, fmt.Errorf("nil token id or value")
	}
	if !t.lock.RTryLockWithContext(ctx) {
		log.Debugf("Fail to obtain read lock over table")
		return nil, fmt.Errorf("fail to obtain read lock over table")
	}
	defer t.lock.RUnlock()
	rules, ok := t.tokens[collection][tokenID.String()]
	if !ok {
		rules = t.collections[collection]
	}
	res := make([]Royalty, 0, len(rules))
	for _, rule := range rules {
		amt := big.NewInt(0).Mul(value, big.NewInt(0).SetUint64(rule.BasisPoints))
		amt.Div(amt, big.NewInt(BasisPointDivisor))
		res = append(res, Royalty{Recipient: rule.Recipient, Amount: amt})
	}
	return res, nil
}

// checkRules checks that rules are well formed and sum to at most 100%.
func checkRules(rules []Rule) error {
	total := uint64(0)
	for _, rule := range rules {
		if rule.Recipient == (common.Address{}) {
			return fmt.Errorf("zero royalty recipient")
		}
		if rule.BasisPoints > BasisPointDivisor {
			return fmt.Errorf("basis points %v exceed %v", rule.BasisPoints, BasisPointDivisor)
		}
		total += rule.BasisPoints
	}
	if total > BasisPointDivisor {
		return fmt.Errorf("total basis points %v exceed %v", total, BasisPointDivisor)
	}
	return nil
}
