// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package saltedhash_test

import (
	"fmt"

	"github.com/simplepassword/simplepassword/pkg/saltedhash"
)

func Example() {
	enrolled, err := saltedhash.New("testpassword")
	if err != nil {
		panic(err)
	}

	// Later, from storage.
	stored, err := saltedhash.FromStored(enrolled.Digest(), enrolled.Salt())
	if err != nil {
		panic(err)
	}

	fmt.Println(stored.Equal(enrolled))
	fmt.Println(stored.Verify("testpassword"))
	fmt.Println(stored.Verify("boguspassword"))
	// Output:
	// true
	// true
	// false
}
