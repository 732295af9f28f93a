package dexload

import "testing"

func TestMultiDexEntryName(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "classes.dex"},
		{2, "classes2.dex"},
		{3, "classes3.dex"},
		{10, "classes10.dex"},
	}
	for _, tc := range cases {
		if got := multiDexEntryName(tc.n); got != tc.want {
			t.Errorf("multiDexEntryName(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestMultiDexLocation(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "/data/app/base.apk"},
		{2, "/data/app/base.apk!classes2.dex"},
		{3, "/data/app/base.apk!classes3.dex"},
	}
	for _, tc := range cases {
		if got := MultiDexLocation("/data/app/base.apk", tc.n); got != tc.want {
			t.Errorf("MultiDexLocation(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
