//go:build linux

package libcuda

import (
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"k8s.io/klog/v2"
)

var hasNvidiaGPU = sync.OnceValue(func() bool {
	matches, err := filepath.Glob("/dev/nvidia*")
	if err != nil {
		klog.Errorf("Failed to figure out if there is an Nvidia GPU installed while searching for files matching \"/dev/nvidia*\": %v", err)
	}
	if len(matches) > 0 {
		return true
	}
	klog.V(1).Infof("No NVidia devices found matching \"/dev/nvidia*\", checking nvidia-smi command instead.")

	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		return false
	}
	output, err := exec.Command("nvidia-smi").CombinedOutput()
	return err == nil && strings.Contains(string(output), "NVIDIA-SMI")
})

// HasNvidiaGPU tries to guess if there is an actual Nvidia GPU installed (as opposed to only the driver library
// installed, but no actual hardware).
//
// It checks for the device files in /dev/nvidia* and falls back to running nvidia-smi. The result is cached.
func HasNvidiaGPU() bool {
	return hasNvidiaGPU()
}
