package ddl

import (
	"regexp"
	"strconv"
)

// identityRe matches the default expression the catalog reports for
// identity columns, e.g. "identity"(445178, 0, '1,1'::text).
var identityRe = regexp.MustCompile(`^"identity"\((-?\d+), (-?\d+), '(-?\d+),(-?\d+)'.*\)$`)

// ParseIdentity recovers the seed and step of an identity column from its
// reflected default expression.
func ParseIdentity(defaultExpr string) (Identity, bool) {
	m := identityRe.FindStringSubmatch(defaultExpr)
	if m == nil {
		return Identity{}, false
	}
	seed, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return Identity{}, false
	}
	step, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return Identity{}, false
	}
	return Identity{Seed: seed, Step: step}, true
}
