// Package all registers every store driver at once.
//
// Import this package to make all backends selectable from configuration:
//
//	import _ "github.com/ncobase/keyset/data/all"
//
// Binaries that only need one backend should import that driver alone:
//
//	import _ "github.com/ncobase/keyset/data/postgres"
package all

import (
	_ "github.com/ncobase/keyset/data/memory"
	_ "github.com/ncobase/keyset/data/mongodb"
	_ "github.com/ncobase/keyset/data/mysql"
	_ "github.com/ncobase/keyset/data/postgres"
	_ "github.com/ncobase/keyset/data/sqlite"
)
