//go:build linux

package libcuda

import (
	"os"
	"path"
	"testing"

	"github.com/gomlx/gocuda/driver"
	"github.com/stretchr/testify/require"
)

func TestLoadLibraryPaths(t *testing.T) {
	dir := t.TempDir()
	confDir := path.Join(dir, "ld.so.conf.d")
	require.NoError(t, os.Mkdir(confDir, 0o755))
	require.NoError(t, os.WriteFile(path.Join(confDir, "cuda.conf"),
		[]byte("# CUDA driver\n/usr/local/cuda/lib64\n"), 0o644))
	require.NoError(t, os.WriteFile(path.Join(confDir, "nvidia.conf"),
		[]byte("  /usr/lib/nvidia  \n\n"), 0o644))
	conf := path.Join(dir, "ld.so.conf")
	require.NoError(t, os.WriteFile(conf, []byte("/opt/lib\ninclude ld.so.conf.d/*.conf\n"), 0o644))

	paths := loadLibraryPaths([]string{"/first"}, conf)
	require.Equal(t, []string{"/first", "/opt/lib", "/usr/local/cuda/lib64", "/usr/lib/nvidia"}, paths)

	// Missing files are not an error.
	require.Equal(t, []string{"/first"}, loadLibraryPaths([]string{"/first"}, path.Join(dir, "missing.conf")))
}

func TestSplitPathList(t *testing.T) {
	require.Equal(t, []string{"/a", "/b/c"}, splitPathList("/a::relative:/b/c"))
	require.Empty(t, splitPathList(""))
}

func TestCandidates(t *testing.T) {
	dir := t.TempDir()
	lib := path.Join(dir, "libcuda.so.1")
	require.NoError(t, os.WriteFile(lib, nil, 0o644))
	direct := path.Join(t.TempDir(), "my_libcuda.so")
	require.NoError(t, os.WriteFile(direct, nil, 0o644))

	got := candidates([]string{"/does/not/exist", dir, direct})
	require.Equal(t, []string{lib, direct, "libcuda.so.1", "libcuda.so"}, got)
}

func TestSearchPathsFromEnv(t *testing.T) {
	t.Setenv(LibraryPathEnv, "/does/not/exist")
	require.Equal(t, []string{"/does/not/exist"}, searchPaths())
	require.Equal(t, LibraryNames, candidates(searchPaths()))
}

func TestLoad(t *testing.T) {
	if !HasNvidiaGPU() {
		t.Skip("No NVidia GPU available")
	}
	d, err := Load()
	require.NoError(t, err)
	d2, err := Load()
	require.NoError(t, err)
	require.Same(t, d, d2)
	t.Logf("%s", d)

	require.Equal(t, driver.CUDA_SUCCESS, d.Init(0))
	count, r := d.DeviceGetCount()
	require.Equal(t, driver.CUDA_SUCCESS, r)
	require.Positive(t, count)
	dev, r := d.DeviceGet(0)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	name, r := d.DeviceGetName(dev)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	require.NotEmpty(t, name)
	_, r = d.DeviceGet(count)
	require.Equal(t, driver.CUDA_ERROR_INVALID_DEVICE, r)
}
