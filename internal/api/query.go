package api

import (
	"strconv"
	"strings"

	"github.com/avelara/bpx-data/internal/fixed"
)

// queryBuilder accumulates key=value pairs in the order they are added.
// Optional setters skip nil values entirely, so an unset field never
// appears on the wire as an empty string or "null". Encoding the same
// parameter set always yields the same string.
type queryBuilder struct {
	pairs []string
}

func (b *queryBuilder) set(key, value string) {
	b.pairs = append(b.pairs, key+"="+value)
}

func (b *queryBuilder) setString(key string, v *string) {
	if v != nil {
		b.set(key, *v)
	}
}

func (b *queryBuilder) setInt64(key string, v *int64) {
	if v != nil {
		b.set(key, strconv.FormatInt(*v, 10))
	}
}

func (b *queryBuilder) setUint64(key string, v *uint64) {
	if v != nil {
		b.set(key, strconv.FormatUint(*v, 10))
	}
}

func (b *queryBuilder) setBool(key string, v *bool) {
	if v != nil {
		b.set(key, strconv.FormatBool(*v))
	}
}

func (b *queryBuilder) setDecimal(key string, v *fixed.Decimal) {
	if v != nil {
		b.set(key, v.String())
	}
}

// setEnum appends an optional enumeration via its canonical wire string.
func setEnum[T ~string](b *queryBuilder, key string, v *T) {
	if v != nil {
		b.set(key, string(*v))
	}
}

// encode joins the accumulated pairs. Empty when nothing was set; no
// leading separator either way.
func (b *queryBuilder) encode() string {
	return strings.Join(b.pairs, "&")
}

// Pointer helpers for building sparse parameter structs.

// String returns a pointer to v.
func String(v string) *string { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Uint64 returns a pointer to v.
func Uint64(v uint64) *uint64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Dec returns a pointer to v.
func Dec(v fixed.Decimal) *fixed.Decimal { return &v }
