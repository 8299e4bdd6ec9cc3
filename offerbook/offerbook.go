package offerbook

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
	"errors"

	logging "github.com/ipfs/go-log"
)

// Logger
var log = logging.Logger("offerbook")

const (
	// Datastore prefixes.
	offersKey     = "offers"
	nonceKey      = "nonce"
	collectionIdx = "collection"
	makerIdx      = "maker"

	// Sub keys of an index entry.
	lenKey  = "len"
	slotKey = "slot"
	posKey  = "pos"

	// MaxPageSize is the largest page a single read may request.
	MaxPageSize = 1000
)

var (
	// ErrOfferNotFound is returned when an offer id is not live.
	ErrOfferNotFound = errors.New("offer not found")

	// ErrBelowMinimum is returned when an offer value is under the configured floor.
	ErrBelowMinimum = errors.New("offer value below minimum")
)
