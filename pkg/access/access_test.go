package access

import (
	"testing"

	"github.com/lfsgate/lfsgate/pkg/lfs"
)

func TestParseAccessLevel(t *testing.T) {
	cases := []struct {
		in  string
		out AccessLevel
	}{
		{"", -1},
		{"foo", -1},
		{AdminAccess.String(), AdminAccess},
		{ReadOnlyAccess.String(), ReadOnlyAccess},
		{ReadWriteAccess.String(), ReadWriteAccess},
		{NoAccess.String(), NoAccess},
	}

	for _, c := range cases {
		out := ParseAccessLevel(c.in)
		if out != c.out {
			t.Errorf("ParseAccessLevel(%q) => %d, want %d", c.in, out, c.out)
		}
	}
}

func TestFromPermissions(t *testing.T) {
	cases := []struct {
		admin, write, read bool
		out                AccessLevel
	}{
		{true, true, true, AdminAccess},
		{true, false, false, AdminAccess},
		{false, true, true, ReadWriteAccess},
		{false, true, false, ReadWriteAccess},
		{false, false, true, ReadOnlyAccess},
		{false, false, false, NoAccess},
	}

	for _, c := range cases {
		if out := FromPermissions(c.admin, c.write, c.read); out != c.out {
			t.Errorf("FromPermissions(%t, %t, %t) => %s, want %s", c.admin, c.write, c.read, out, c.out)
		}
	}
}

func TestAllows(t *testing.T) {
	cases := []struct {
		level    AccessLevel
		download bool
		upload   bool
	}{
		{NoAccess, false, false},
		{ReadOnlyAccess, true, false},
		{ReadWriteAccess, true, true},
		{AdminAccess, true, true},
	}

	for _, c := range cases {
		if got := c.level.Allows(lfs.OperationDownload); got != c.download {
			t.Errorf("%s.Allows(download) => %t, want %t", c.level, got, c.download)
		}
		if got := c.level.Allows(lfs.OperationUpload); got != c.upload {
			t.Errorf("%s.Allows(upload) => %t, want %t", c.level, got, c.upload)
		}
	}
}

func TestAllowsMonotonic(t *testing.T) {
	levels := []AccessLevel{NoAccess, ReadOnlyAccess, ReadWriteAccess, AdminAccess}
	ops := []string{lfs.OperationDownload, lfs.OperationUpload}
	for i := 1; i < len(levels); i++ {
		lower, higher := levels[i-1], levels[i]
		for _, op := range ops {
			if lower.Allows(op) && !higher.Allows(op) {
				t.Errorf("%s allows %s but %s does not", lower, op, higher)
			}
		}
	}
}

func TestAccessLevelText(t *testing.T) {
	for _, l := range []AccessLevel{NoAccess, ReadOnlyAccess, ReadWriteAccess, AdminAccess} {
		text, err := l.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s) => %v", l, err)
		}
		var out AccessLevel
		if err := out.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) => %v", text, err)
		}
		if out != l {
			t.Errorf("round trip of %s => %s", l, out)
		}
	}

	var out AccessLevel
	if err := out.UnmarshalText([]byte("superuser")); err != ErrInvalidAccessLevel {
		t.Errorf("UnmarshalText(superuser) => %v, want %v", err, ErrInvalidAccessLevel)
	}
}
