package dist

import "testing"

func TestClassifyURL(t *testing.T) {
	cases := map[string]string{
		"": DefaultChannel,
		"https://repo.anaconda.com/pkgs/main/linux-64/foo-1.0-0.tar.bz2":  "main",
		"https://conda.anaconda.org/conda-forge/noarch/foo-1.0-0.tar.bz2": "conda-forge",
		"not-a-url": DefaultChannel,
	}
	for url, want := range cases {
		if got := ClassifyURL(url); got != want {
			t.Errorf("ClassifyURL(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestStripBinstarToken(t *testing.T) {
	in := "https://conda.anaconda.org/t/abc123def/conda-forge/noarch/foo-1.0-0.tar.bz2"
	want := "https://conda.anaconda.org/conda-forge/noarch/foo-1.0-0.tar.bz2"
	if got := StripBinstarToken(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStripBinstarTokenNoOp(t *testing.T) {
	in := "https://repo.anaconda.com/pkgs/main/linux-64/foo-1.0-0.tar.bz2"
	if got := StripBinstarToken(in); got != in {
		t.Errorf("got %q, want unchanged %q", got, in)
	}
}
