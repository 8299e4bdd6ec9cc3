package ledgerstore

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
	"strings"

	"github.com/ipfs/go-datastore"
)

// getDSKey gets the datastore key for a given path.
//
// @input - path.
//
// @output - datastore key, error.
func getDSKey(path ...interface{}) (datastore.Key, error) {
	if len(path) == 0 {
		return datastore.Key{}, fmt.Errorf("empty path provided")
	}
	elems := make([]string, 0, len(path))
	for _, sub := range path {
		key := fmt.Sprintf("%v", sub)
		if key == "" {
			return datastore.Key{}, fmt.Errorf("path contains empty element")
		}
		if strings.Contains(key, DatastoreKeySeperator) {
			return datastore.Key{}, fmt.Errorf("%v contains illegal character %v", key, DatastoreKeySeperator)
		}
		elems = append(elems, key)
	}
	return datastore.NewKey(strings.Join(elems, DatastoreKeySeperator)), nil
}
