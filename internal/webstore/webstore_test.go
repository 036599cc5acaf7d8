package webstore

import (
	"strings"
	"testing"
)

const sampleID = "gppongmhjkpfnbhagpmjfkannfbllamg"

func TestValidID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{sampleID, true},
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},
		{"", false},
		{"short", false},
		{strings.Repeat("a", 31), false},
		{strings.Repeat("a", 33), false},
		{"gppongmhjkpfnbhagpmjfkannfbllamG", false}, // uppercase
		{"qppongmhjkpfnbhagpmjfkannfbllamg", false}, // q is out of range
		{"gppongmhjkpfnbhagpmjfkannfbllam1", false}, // digit
	}
	for _, c := range cases {
		if got := ValidID(c.id); got != c.want {
			t.Errorf("ValidID(%q) = %v, want %v", c.id, got, c.want)
		}
	}
}

func TestDownloadURL(t *testing.T) {
	u, err := DownloadURL(sampleID, Options{OS: "linux", Arch: "x86-64", NaClArch: "x86-64"})
	if err != nil {
		t.Fatalf("DownloadURL failed: %v", err)
	}

	for _, part := range []string{
		"https://clients2.google.com/service/update2/crx?response=redirect",
		"&os=linux",
		"&arch=x86-64",
		"&os_arch=x86-64",
		"&nacl_arch=x86-64",
		"&prod=chromiumcrx",
		"&prodchannel=unknown",
		"&prodversion=" + DefaultProdVersion,
		"&acceptformat=crx2,crx3",
		"&x=id%3D" + sampleID + "%26uc",
	} {
		if !strings.Contains(u, part) {
			t.Errorf("URL missing %q:\n%s", part, u)
		}
	}
}

func TestDownloadURLOverrides(t *testing.T) {
	u, err := DownloadURL(sampleID, Options{
		OS:          "mac",
		Arch:        "arm",
		NaClArch:    "arm",
		ProdVersion: "119.0.6045.105",
		Product:     ProductChrome,
	})
	if err != nil {
		t.Fatalf("DownloadURL failed: %v", err)
	}
	for _, part := range []string{"&os=mac", "&arch=arm", "&prod=chromecrx", "&prodversion=119.0.6045.105"} {
		if !strings.Contains(u, part) {
			t.Errorf("URL missing override %q:\n%s", part, u)
		}
	}
}

func TestDownloadURLRejectsBadID(t *testing.T) {
	if _, err := DownloadURL("not-an-id", Options{}); err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestParseStoreURL(t *testing.T) {
	id, err := ParseStoreURL("https://chrome.google.com/webstore/detail/wappalyzer/" + sampleID)
	if err != nil {
		t.Fatalf("ParseStoreURL failed: %v", err)
	}
	if id != sampleID {
		t.Errorf("id = %q, want %q", id, sampleID)
	}

	bad := []string{
		"https://example.com/webstore/detail/name/" + sampleID,
		"https://chrome.google.com/other/path",
		"https://chrome.google.com/webstore/detail/name/notanid",
		"://broken",
	}
	for _, u := range bad {
		if _, err := ParseStoreURL(u); err == nil {
			t.Errorf("ParseStoreURL(%q) succeeded, want error", u)
		}
	}
}

func TestResolveID(t *testing.T) {
	if id, err := ResolveID(sampleID); err != nil || id != sampleID {
		t.Errorf("ResolveID(id) = %q, %v", id, err)
	}
	if id, err := ResolveID("https://chrome.google.com/webstore/detail/x/" + sampleID); err != nil || id != sampleID {
		t.Errorf("ResolveID(url) = %q, %v", id, err)
	}
	if _, err := ResolveID("nonsense"); err == nil {
		t.Error("ResolveID(nonsense) succeeded, want error")
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.OS == "" || o.Arch == "" || o.NaClArch == "" {
		t.Errorf("DefaultOptions left platform fields empty: %+v", o)
	}
	if o.ProdVersion != DefaultProdVersion {
		t.Errorf("ProdVersion = %q, want %q", o.ProdVersion, DefaultProdVersion)
	}
	if o.Product != ProductChromium {
		t.Errorf("Product = %q, want %q", o.Product, ProductChromium)
	}
}
