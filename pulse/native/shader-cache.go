//go:build !js

package native

import (
	"log/slog"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/hashicorp/golang-lru/v2"
)

// shaderCache holds the compiled shader modules of a device. Windows sharing
// a device compile each shader source only once.
type shaderCache struct {
	// must be held while a module returned by get is in use
	mu sync.Mutex

	device  *wgpu.Device
	modules *lru.Cache[string, *wgpu.ShaderModule]
}

func newShaderCache(device *wgpu.Device) *shaderCache {
	modules, err := lru.NewWithEvict(16, func(_ string, module *wgpu.ShaderModule) {
		module.Release()
	})

	if err != nil {
		// only fails for a non positive size
		panic(err)
	}

	return &shaderCache{device: device, modules: modules}
}

func (c *shaderCache) get(label, source string) (*wgpu.ShaderModule, error) {
	if module, ok := c.modules.Get(source); ok {
		return module, nil
	}

	slog.Debug("Compile shader module", slog.String("label", label))

	module, err := c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})

	if err != nil {
		return nil, err
	}

	c.modules.Add(source, module)

	return module, nil
}

// purge releases all cached modules.
func (c *shaderCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.modules.Purge()
}
