/*
 *	Copyright 2025 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package cuda

import (
	"os"
	"slices"

	"github.com/gomlx/gocuda/driver"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Module is device code (PTX, cubin or fatbin) loaded in a Device, registered under a name.
//
// It is owned by the Device that loaded it, and unloaded by Device.UnloadModule or when the Device is destroyed.
type Module struct {
	// state of the owning device: not the *Device, which would never be garbage collected otherwise.
	state     *deviceState
	name      string
	handle    driver.Module
	functions map[string]*Function
}

// Function is a kernel entry point of a Module, that can be launched with Device.Launch.
// It is valid while its module is loaded.
type Function struct {
	module *Module
	name   string
	handle driver.Function
}

// Name of the function in the module image.
func (f *Function) Name() string {
	return f.name
}

// Module the function belongs to.
func (f *Function) Module() *Module {
	return f.module
}

// IsValid returns whether the module of the function is still loaded.
func (f *Function) IsValid() bool {
	return f != nil && f.module.IsLoaded()
}

// Name under which the module is registered in its device.
func (m *Module) Name() string {
	return m.name
}

// IsLoaded returns whether the module is still loaded.
func (m *Module) IsLoaded() bool {
	return m != nil && m.handle != 0
}

// Function returns the function resolved with the given name when the module was loaded.
func (m *Module) Function(name string) (*Function, bool) {
	if !m.IsLoaded() {
		return nil, false
	}
	f, found := m.functions[name]
	return f, found
}

// FunctionNames returns the sorted names of the functions resolved when the module was loaded.
func (m *Module) FunctionNames() []string {
	names := make([]string, 0, len(m.functions))
	for name := range m.functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// unload releases the module. The context must be current.
func (m *Module) unload() error {
	if !m.IsLoaded() {
		return nil
	}
	err := toError("cuModuleUnload", m.state.drv.ModuleUnload(m.handle))
	m.handle = 0
	clear(m.functions)
	return errors.WithMessagef(err, "unloading module %q", m.name)
}

// ModuleConfig configures the loading of a Module. Create it with Device.LoadModule, set the image and the
// functions to resolve, and call Done.
//
// The first error found while configuring is deferred to Done.
type ModuleConfig struct {
	device    *Device
	name      string
	image     []byte
	functions []string
	err       error
}

// LoadModule returns the configuration to load a module into the device, registered under the given name.
// Call Done to load it.
//
// Example:
//
//	module, err := device.LoadModule("vector_add").FromFile("vector_add.ptx").WithFunctions("add").Done()
func (d *Device) LoadModule(name string) *ModuleConfig {
	c := &ModuleConfig{device: d, name: name}
	if name == "" {
		c.err = errors.New("Device.LoadModule() requires a non-empty module name")
	}
	return c
}

// FromImage sets the module image: PTX (NUL-terminated or not), cubin or fatbin.
func (c *ModuleConfig) FromImage(image []byte) *ModuleConfig {
	if c.err != nil {
		return c
	}
	if c.image != nil {
		c.err = errors.Errorf("LoadModule(%q): image already set", c.name)
		return c
	}
	if len(image) == 0 {
		c.err = errors.Errorf("LoadModule(%q): empty image", c.name)
		return c
	}
	c.image = image
	return c
}

// FromFile reads the module image from the file at path.
func (c *ModuleConfig) FromFile(path string) *ModuleConfig {
	if c.err != nil {
		return c
	}
	image, err := os.ReadFile(path)
	if err != nil {
		c.err = errors.Wrapf(err, "LoadModule(%q): failed to read image", c.name)
		return c
	}
	return c.FromImage(image)
}

// WithFunctions lists the functions to resolve when the module is loaded. Done fails if any of them is not in the image.
func (c *ModuleConfig) WithFunctions(names ...string) *ModuleConfig {
	c.functions = append(c.functions, names...)
	return c
}

// Done loads the module into the device, resolves the functions and registers it.
//
// If loading or resolving any function fails, nothing stays loaded or registered.
func (c *ModuleConfig) Done() (*Module, error) {
	if c.err != nil {
		return nil, c.err
	}
	s := c.device.state
	if err := s.checkValid("LoadModule"); err != nil {
		return nil, err
	}
	if _, found := s.modules[c.name]; found {
		return nil, errors.Errorf("LoadModule(%q): a module with this name is already loaded in %s", c.name, c.device)
	}
	if c.image == nil {
		return nil, errors.Errorf("LoadModule(%q): no image given, use FromImage or FromFile", c.name)
	}
	unlock, err := s.activate()
	if err != nil {
		return nil, err
	}
	defer unlock()

	handle, r := s.drv.ModuleLoadData(c.image)
	if err = toError("cuModuleLoadData", r); err != nil {
		return nil, errors.WithMessagef(err, "LoadModule(%q)", c.name)
	}
	m := &Module{state: s, name: c.name, handle: handle, functions: make(map[string]*Function, len(c.functions))}
	for _, fnName := range c.functions {
		if _, found := m.functions[fnName]; found {
			continue
		}
		fnHandle, r := s.drv.ModuleGetFunction(handle, fnName)
		if err = toError("cuModuleGetFunction", r); err != nil {
			if unloadErr := m.unload(); unloadErr != nil {
				klog.Errorf("Failed to unload module %q after failing to load it: %+v", c.name, unloadErr)
			}
			return nil, errors.WithMessagef(err, "LoadModule(%q): resolving function %q", c.name, fnName)
		}
		m.functions[fnName] = &Function{module: m, name: fnName, handle: fnHandle}
	}
	s.modules[c.name] = m
	klog.V(2).Infof("loaded module %q with functions %q in %s", c.name, m.FunctionNames(), c.device)
	return m, nil
}

// Module returns the module registered under name.
func (d *Device) Module(name string) (*Module, bool) {
	m, found := d.state.modules[name]
	return m, found
}

// GetFunction returns the function fnName of the module registered under moduleName.
func (d *Device) GetFunction(moduleName, fnName string) (*Function, bool) {
	m, found := d.Module(moduleName)
	if !found {
		return nil, false
	}
	return m.Function(fnName)
}

// HasFunction returns whether the module registered under moduleName has the function fnName.
func (d *Device) HasFunction(moduleName, fnName string) bool {
	_, found := d.GetFunction(moduleName, fnName)
	return found
}

// ModuleNames returns the sorted names of the modules loaded in the device.
func (d *Device) ModuleNames() []string {
	return d.state.moduleNames()
}

// UnloadModule unloads the module registered under name and removes it from the registry.
// Its functions can no longer be launched.
func (d *Device) UnloadModule(name string) error {
	s := d.state
	if err := s.checkValid("Device.UnloadModule"); err != nil {
		return err
	}
	m, found := s.modules[name]
	if !found {
		return errors.Errorf("Device.UnloadModule(%q): no such module in %s", name, d)
	}
	unlock, err := s.activate()
	if err != nil {
		return err
	}
	defer unlock()
	delete(s.modules, name)
	return m.unload()
}
