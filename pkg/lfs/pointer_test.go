package lfs

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestPointerStorageKey(t *testing.T) {
	is := is.New(t)
	p := Pointer{Oid: testOid, Size: 1}
	is.Equal(p.RelativePath(), "4d/7a/"+testOid)
	is.Equal(p.StorageKey("acme", "widgets"), "acme/widgets/4d/7a/"+testOid)
}

func TestValidOid(t *testing.T) {
	cases := []struct {
		oid   string
		valid bool
	}{
		{testOid, true},
		{"abc", false},
		{testOid + "0", false},
		{strings.ToUpper(testOid), false},
	}
	for _, c := range cases {
		if ValidOid(c.oid) != c.valid {
			t.Errorf("ValidOid(%q) => %t, want %t", c.oid, !c.valid, c.valid)
		}
	}
}
