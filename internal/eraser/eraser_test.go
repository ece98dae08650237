package eraser

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdf-eco-tool/internal/database"
	"hdf-eco-tool/internal/editor"
	"hdf-eco-tool/internal/fsops"
	"hdf-eco-tool/internal/hdfpath"
	"hdf-eco-tool/internal/registry"
	"hdf-eco-tool/internal/toolerr"
)

const (
	vendor = "hisilicon"
	board  = "hispark_taurus"
)

const usbEntry = `{
        "module_name": "usb",
        "driver_file_path": "vendor/hisilicon/hdf/usb/driver/usb_host",
        "module_level_config_path": {
            "usb_Makefile": "vendor/hisilicon/hdf/Makefile",
            "usb_Kconfig": "vendor/hisilicon/hdf/Kconfig",
            "usbBuild": "vendor/hisilicon/hdf/BUILD.gn",
            "usb_hdf_lite": "vendor/hisilicon/hdf/hdf_lite.mk",
            "usb_dot_configs": [
                "device/hisilicon/hispark_taurus/sdk_liteos/config/.config",
                "kernel/linux/config/hi3516dv300_small_defconfig"
            ]
        },
        "module_path": {
            "usb_adapter": "drivers/adapter/uhdf/usb/usb_adapter.c",
            "usb_device_info": "vendor/hisilicon/hispark_taurus/hdf_config/device_info/device_info.hcs",
            "usb_unused": ""
        }
    }`

const displayEntry = `{
        "module_name": "display",
        "driver_file_path": "vendor/hisilicon/hdf/display/driver",
        "module_path": {
            "display_header": "drivers/adapter/uhdf/display/display.h"
        }
    }`

var treeFiles = map[string]string{
	"vendor/hisilicon/hdf/usb/driver/usb_host/src/usb_host.c": "int main;\n",
	"vendor/hisilicon/hdf/usb/Kconfig":                        "config DRIVERS_HDF_USB_HOST\n    bool \"usb host\"\n",
	"vendor/hisilicon/hdf/display/driver/display.c":           "int display;\n",
	"vendor/hisilicon/hdf/Makefile": "ifeq ($(LOSCFG_DRIVERS_HDF_USB), y)\n    obj-y += usb/\nendif\n" +
		"ifeq ($(LOSCFG_DRIVERS_HDF_DISPLAY), y)\n    obj-y += display/\nendif\n",
	"vendor/hisilicon/hdf/Kconfig": "source \"../../vendor/hisilicon/hdf/usb/Kconfig\"\n" +
		"source \"../../vendor/hisilicon/hdf/display/Kconfig\"\n",
	"vendor/hisilicon/hdf/BUILD.gn":                                   "group(\"hdf_vendor\") {\n  deps = [\n    \"usb\",\n    \"display\",\n  ]\n}\n",
	"vendor/hisilicon/hdf/hdf_lite.mk":                                "LITEOS_BASELIB += -lhdf_usb\nLITEOS_BASELIB += -lhdf_display\n",
	"device/hisilicon/hispark_taurus/sdk_liteos/config/.config":       "LOSCFG_DRIVERS_HDF=y\nLOSCFG_DRIVERS_HDF_USB=y\nLOSCFG_DRIVERS_HDF_DISPLAY=y\n",
	"kernel/linux/config/hi3516dv300_small_defconfig":                 "CONFIG_DRIVERS_HDF_USB=y\nCONFIG_DRIVERS_HDF_DISPLAY=y\n",
	"drivers/adapter/uhdf/usb/usb_adapter.c":                          "void adapter(void);\n",
	"drivers/adapter/uhdf/display/display.h":                          "#pragma once\n",
	"vendor/hisilicon/hispark_taurus/hdf_config/device_info/device_info.hcs": "root {\n    device_info {\n" +
		"        usb :: host {\n            hostName = \"usb_host\";\n        }\n" +
		"        display :: host {\n            hostName = \"display_host\";\n        }\n" +
		"    }\n}\n",
}

func registryJSON(entries map[string]string) string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	out := "{\n"
	for i, name := range names {
		out += "    \"" + name + "\": " + entries[name]
		if i < len(names)-1 {
			out += ","
		}
		out += "\n"
	}
	return out + "}\n"
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// newTree builds a source tree with the usb and display modules registered
func newTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "ohos")
	writeTree(t, root, treeFiles)
	writeRegistry(t, root, registryJSON(map[string]string{"usb": usbEntry, "display": displayEntry}))
	return root
}

func writeRegistry(t *testing.T, root, content string) string {
	t.Helper()
	path := hdfpath.DefaultLayout().RegistryPath(root)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func assertGone(t *testing.T, root, rel string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err), "%s should be removed", rel)
}

func assertPresent(t *testing.T, root, rel string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.NoError(t, err, "%s should still exist", rel)
}

type memRecorder struct {
	events []database.Event
}

func (m *memRecorder) Record(e database.Event) error {
	m.events = append(m.events, e)
	return nil
}

func (m *memRecorder) actions() map[string]int {
	counts := make(map[string]int)
	for _, e := range m.events {
		counts[e.Action]++
	}
	return counts
}

func moduleArgs(root, module string) Args {
	return Args{ActionType: ActionModule, RootDir: root, ModuleName: module}
}

func TestArgsValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    Args
		code    toolerr.Code
		missing string
	}{
		{"no action", Args{RootDir: "/src"}, toolerr.MessageFormatWrong, "action_type"},
		{"unknown action", Args{ActionType: "board", RootDir: "/src"}, toolerr.InterfaceNotExist, "board"},
		{"module without root", Args{ActionType: ActionModule, ModuleName: "usb"}, toolerr.MessageFormatWrong, "root_dir"},
		{"module without name", Args{ActionType: ActionModule, RootDir: "/src"}, toolerr.MessageFormatWrong, "module_name"},
		{"vendor without vendor", Args{ActionType: ActionVendor, RootDir: "/src", BoardName: board}, toolerr.MessageFormatWrong, "vendor_name"},
		{"vendor without board", Args{ActionType: ActionVendor, RootDir: "/src", VendorName: vendor}, toolerr.MessageFormatWrong, "board_name"},
		{"driver reports first missing", Args{ActionType: ActionDriver, RootDir: "/src", VendorName: vendor}, toolerr.MessageFormatWrong, "module_name"},
		{"driver without board", Args{ActionType: ActionDriver, RootDir: "/src", VendorName: vendor, ModuleName: "usb", DriverName: "hmcp"}, toolerr.MessageFormatWrong, "board_name"},
		{"module name with separator", Args{ActionType: ActionModule, RootDir: "/src", ModuleName: "../usb"}, toolerr.MessageFormatWrong, "single path segment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.args.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.code, toolerr.CodeOf(err))
			assert.Contains(t, err.Error(), tt.missing)
		})
	}

	valid := []Args{
		{ActionType: ActionVendor, RootDir: "/src", VendorName: vendor, BoardName: board},
		{ActionType: ActionModule, RootDir: "/src", ModuleName: "usb"},
		{ActionType: ActionDriver, RootDir: "/src", VendorName: vendor, ModuleName: "usb", DriverName: "hmcp", BoardName: board},
	}
	for _, a := range valid {
		assert.NoError(t, a.Validate(), a.ActionType)
	}
}

func TestMissingArgumentMutatesNothing(t *testing.T) {
	root := newTree(t)
	d := &fsops.FakeDeleter{}
	w := &fsops.FakeWriter{}

	_, err := New(Options{Deleter: d, Writer: w}).Run(Args{ActionType: ActionDriver, RootDir: root, VendorName: vendor})
	require.Error(t, err)
	assert.Empty(t, d.Calls)
	assert.Empty(t, w.Calls)
}

func TestDeleteModule(t *testing.T) {
	root := newTree(t)
	rec := &memRecorder{}
	before, err := registry.Load(hdfpath.DefaultLayout().RegistryPath(root))
	require.NoError(t, err)

	reg, err := New(Options{Recorder: rec}).DeleteModule(moduleArgs(root, "usb"))
	require.NoError(t, err)

	// driver tree
	assertGone(t, root, "vendor/hisilicon/hdf/usb")
	assertPresent(t, root, "vendor/hisilicon/hdf/display/driver/display.c")

	// module level config files
	assert.Equal(t, "ifeq ($(LOSCFG_DRIVERS_HDF_DISPLAY), y)\n    obj-y += display/\nendif\n", read(t, root, "vendor/hisilicon/hdf/Makefile"))
	assert.Equal(t, "source \"../../vendor/hisilicon/hdf/display/Kconfig\"\n", read(t, root, "vendor/hisilicon/hdf/Kconfig"))
	assert.Equal(t, "group(\"hdf_vendor\") {\n  deps = [\n    \"display\",\n  ]\n}\n", read(t, root, "vendor/hisilicon/hdf/BUILD.gn"))
	assert.Equal(t, "LITEOS_BASELIB += -lhdf_display\n", read(t, root, "vendor/hisilicon/hdf/hdf_lite.mk"))
	assert.Equal(t, "LOSCFG_DRIVERS_HDF=y\nLOSCFG_DRIVERS_HDF_DISPLAY=y\n", read(t, root, "device/hisilicon/hispark_taurus/sdk_liteos/config/.config"))
	assert.Equal(t, "CONFIG_DRIVERS_HDF_DISPLAY=y\n", read(t, root, "kernel/linux/config/hi3516dv300_small_defconfig"))

	// module paths
	assertGone(t, root, "drivers/adapter/uhdf/usb/usb_adapter.c")
	assertGone(t, root, "drivers/adapter/uhdf/usb")
	assertPresent(t, root, "drivers/adapter/uhdf")
	assert.NotContains(t, read(t, root, "vendor/hisilicon/hispark_taurus/hdf_config/device_info/device_info.hcs"), "usb :: host")
	assert.Contains(t, read(t, root, "vendor/hisilicon/hispark_taurus/hdf_config/device_info/device_info.hcs"), "display :: host")

	// registry
	require.NotNil(t, reg)
	assert.Equal(t, []string{"display"}, reg.Modules())
	after, err := registry.Load(hdfpath.DefaultLayout().RegistryPath(root))
	require.NoError(t, err)
	assert.Equal(t, []string{"display"}, after.Modules())
	wantRaw, _ := before.Raw("display")
	gotRaw, _ := after.Raw("display")
	assert.JSONEq(t, string(wantRaw), string(gotRaw))

	counts := rec.actions()
	assert.Equal(t, 3, counts[database.ActionDelete], "driver tree, adapter file, adapter dir")
	assert.Equal(t, 8, counts[database.ActionEdit], "six config edits, device info and registry")
	assert.Zero(t, counts[database.ActionError])
	for _, e := range rec.events {
		assert.Equal(t, "usb", e.Module)
		assert.Equal(t, ActionModule, e.ActionType)
		switch e.ObjectType {
		case "file":
			assert.Equal(t, int64(len(treeFiles["drivers/adapter/uhdf/usb/usb_adapter.c"])), e.Size)
		case "directory":
			assert.Positive(t, e.Size)
		default:
			assert.Zero(t, e.Size)
		}
	}
}

func TestDeleteModuleNotRegistered(t *testing.T) {
	root := newTree(t)
	regPath := hdfpath.DefaultLayout().RegistryPath(root)
	before, err := os.ReadFile(regPath)
	require.NoError(t, err)

	_, err = New(Options{}).DeleteModule(moduleArgs(root, "camera"))
	require.Error(t, err)
	assert.True(t, toolerr.Is(err, toolerr.TargetNotExist))

	after, err := os.ReadFile(regPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteModuleTwice(t *testing.T) {
	root := newTree(t)
	h := New(Options{})

	_, err := h.DeleteModule(moduleArgs(root, "usb"))
	require.NoError(t, err)

	_, err = h.DeleteModule(moduleArgs(root, "usb"))
	require.Error(t, err)
	assert.Equal(t, toolerr.TargetNotExist, toolerr.CodeOf(err))
}

func TestDeleteModuleMissingFilesAreNoOps(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ohos")
	require.NoError(t, os.MkdirAll(root, 0o755))
	regPath := writeRegistry(t, root, registryJSON(map[string]string{"usb": usbEntry}))
	rec := &memRecorder{}

	reg, err := New(Options{Recorder: rec}).DeleteModule(moduleArgs(root, "usb"))
	require.NoError(t, err)
	assert.Zero(t, reg.Len())

	after, err := registry.Load(regPath)
	require.NoError(t, err)
	assert.Zero(t, after.Len())

	counts := rec.actions()
	assert.Zero(t, counts[database.ActionDelete])
	assert.Equal(t, 1, counts[database.ActionEdit], "only the registry is rewritten")
	assert.Equal(t, 10, counts[database.ActionSkip])
}

func TestDeleteModuleRegistryErrors(t *testing.T) {
	t.Run("framework dir missing", func(t *testing.T) {
		root := t.TempDir()
		_, err := New(Options{}).DeleteModule(moduleArgs(root, "usb"))
		assert.Equal(t, toolerr.TargetNotExist, toolerr.CodeOf(err))
	})

	t.Run("registry missing", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(hdfpath.DefaultLayout().FrameworkDir(root), 0o755))
		_, err := New(Options{}).DeleteModule(moduleArgs(root, "usb"))
		assert.Equal(t, toolerr.TargetNotExist, toolerr.CodeOf(err))
	})

	t.Run("malformed registry", func(t *testing.T) {
		root := t.TempDir()
		writeRegistry(t, root, "{\"usb\": ")
		_, err := New(Options{}).DeleteModule(moduleArgs(root, "usb"))
		assert.Equal(t, toolerr.FileFormatWrong, toolerr.CodeOf(err))
	})

	t.Run("empty registry", func(t *testing.T) {
		root := t.TempDir()
		writeRegistry(t, root, "\n")
		_, err := New(Options{}).DeleteModule(moduleArgs(root, "usb"))
		assert.Equal(t, toolerr.FileFormatWrong, toolerr.CodeOf(err))
	})

	t.Run("unknown key rejected before mutation", func(t *testing.T) {
		root := newTree(t)
		writeRegistry(t, root, registryJSON(map[string]string{"usb": `{
			"driver_file_path": "vendor/hisilicon/hdf/usb/driver/usb_host",
			"module_test_path": {"x": "y"}
		}`}))
		_, err := New(Options{}).DeleteModule(moduleArgs(root, "usb"))
		assert.Equal(t, toolerr.FileFormatWrong, toolerr.CodeOf(err))
		assertPresent(t, root, "vendor/hisilicon/hdf/usb/driver/usb_host/src/usb_host.c")
	})
}

func TestDeleteModuleTraversalBlocked(t *testing.T) {
	root := newTree(t)
	outside := filepath.Join(filepath.Dir(root), "outside", "secret.c")
	require.NoError(t, os.MkdirAll(filepath.Dir(outside), 0o755))
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))
	regPath := writeRegistry(t, root, registryJSON(map[string]string{"usb": `{
        "driver_file_path": "vendor/hisilicon/hdf/usb/driver/usb_host",
        "module_path": {"usb_escape": "../outside/secret.c"}
    }`}))
	before, err := os.ReadFile(regPath)
	require.NoError(t, err)
	rec := &memRecorder{}

	_, err = New(Options{Recorder: rec}).DeleteModule(moduleArgs(root, "usb"))
	require.Error(t, err)
	assert.True(t, toolerr.Is(err, toolerr.SafetyViolation))

	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr, "file outside the tree must survive")
	assertPresent(t, root, "vendor/hisilicon/hdf/usb/driver/usb_host/src/usb_host.c")
	after, err := os.ReadFile(regPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, rec.actions()[database.ActionError])
}

func TestDeleteModuleKeepsRootAndFrameworkParents(t *testing.T) {
	for _, rel := range []string{"usb_notes.txt", "drivers/framework/usb_config.h"} {
		t.Run(rel, func(t *testing.T) {
			root := newTree(t)
			writeTree(t, root, map[string]string{rel: "notes\n"})
			writeRegistry(t, root, registryJSON(map[string]string{"usb": `{
        "driver_file_path": "vendor/hisilicon/hdf/usb/driver/usb_host",
        "module_path": {"usb_extra": "` + rel + `"}
    }`}))
			rec := &memRecorder{}

			reg, err := New(Options{Recorder: rec}).DeleteModule(moduleArgs(root, "usb"))
			require.NoError(t, err)
			assert.False(t, reg.Has("usb"))

			assertGone(t, root, rel)
			assertPresent(t, root, filepath.Dir(rel))
			assertPresent(t, root, "drivers/framework/tools")
			assert.Zero(t, rec.actions()[database.ActionError])
		})
	}
}

func TestDeleteModuleDryRun(t *testing.T) {
	root := newTree(t)
	regPath := hdfpath.DefaultLayout().RegistryPath(root)
	before, err := os.ReadFile(regPath)
	require.NoError(t, err)

	d := &fsops.FakeDeleter{}
	w := &fsops.FakeWriter{}
	rec := &memRecorder{}
	_, err = New(Options{Deleter: d, Writer: w, Recorder: rec, DryRun: true}).DeleteModule(moduleArgs(root, "usb"))
	require.NoError(t, err)

	assert.Empty(t, d.Calls, "dry run must never delete")
	assert.Empty(t, w.Calls, "dry run must never write")
	assertPresent(t, root, "vendor/hisilicon/hdf/usb/driver/usb_host/src/usb_host.c")
	assert.Equal(t, treeFiles["vendor/hisilicon/hdf/Makefile"], read(t, root, "vendor/hisilicon/hdf/Makefile"))
	after, err := os.ReadFile(regPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	counts := rec.actions()
	assert.Equal(t, 11, counts[database.ActionDryRun])
	assert.Zero(t, counts[database.ActionDelete])
	assert.Zero(t, counts[database.ActionEdit])
}

func TestDeleteVendorMissing(t *testing.T) {
	root := t.TempDir()
	d := &fsops.FakeDeleter{}

	err := New(Options{Deleter: d}).DeleteVendor(Args{RootDir: root, VendorName: vendor, BoardName: board})
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be created")
	assert.Empty(t, d.Calls)
}

func TestDeleteVendor(t *testing.T) {
	root := newTree(t)
	writeTree(t, root, map[string]string{
		"vendor/hisilicon/hdf/misc/misc.c": "int misc;\n",
		"vendor/hisilicon/hdf/README":      "vendor drivers\n",
	})

	err := New(Options{}).DeleteVendor(Args{RootDir: root, VendorName: vendor, BoardName: board})
	require.NoError(t, err)

	assertGone(t, root, "vendor/hisilicon/hdf")
	assertPresent(t, root, "vendor/hisilicon/hispark_taurus")
	assertGone(t, root, "drivers/adapter/uhdf/usb")
	assertGone(t, root, "drivers/adapter/uhdf/display")
	// display records no board config, so only the usb line goes
	assert.Equal(t, "LOSCFG_DRIVERS_HDF=y\nLOSCFG_DRIVERS_HDF_DISPLAY=y\n", read(t, root, "device/hisilicon/hispark_taurus/sdk_liteos/config/.config"))

	reg, err := registry.Load(hdfpath.DefaultLayout().RegistryPath(root))
	require.NoError(t, err)
	assert.Zero(t, reg.Len())
}

func TestDeleteVendorFollowsSymlinkedModuleDir(t *testing.T) {
	root := newTree(t)
	linked := filepath.Join(root, "vendor/hisilicon/hdf/display")
	shared := filepath.Join(root, "shared/display")
	require.NoError(t, os.MkdirAll(filepath.Dir(shared), 0o755))
	require.NoError(t, os.Rename(linked, shared))
	require.NoError(t, os.Symlink(shared, linked))

	err := New(Options{}).DeleteVendor(Args{RootDir: root, VendorName: vendor, BoardName: board})
	require.NoError(t, err)

	assertGone(t, root, "vendor/hisilicon/hdf")
	assertGone(t, root, "drivers/adapter/uhdf/display")
	assertPresent(t, root, "shared/display/driver/display.c")

	reg, err := registry.Load(hdfpath.DefaultLayout().RegistryPath(root))
	require.NoError(t, err)
	assert.False(t, reg.Has("display"))
}

func TestDeleteVendorRegistryMissingKeepsVendorDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"vendor/hisilicon/hdf/usb/usb.c": "int usb;\n"})

	err := New(Options{}).DeleteVendor(Args{RootDir: root, VendorName: vendor, BoardName: board})
	require.Error(t, err)
	assert.Equal(t, toolerr.TargetNotExist, toolerr.CodeOf(err))
	assertPresent(t, root, "vendor/hisilicon/hdf/usb/usb.c")
}

func TestDeleteVendorWithoutModules(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"vendor/hisilicon/hdf/Makefile": "all:\n"})

	// no module subdirectory, so no registry is needed
	err := New(Options{}).DeleteVendor(Args{RootDir: root, VendorName: vendor, BoardName: board})
	require.NoError(t, err)
	assertGone(t, root, "vendor/hisilicon/hdf")
}

type moduleFn func(module string) error

func (f moduleFn) DeleteModule(module string) error { return f(module) }

type driverFn func(module, driver string) error

func (f driverFn) DeleteDriver(module, driver string) error { return f(module, driver) }

type lineFn func(line string) error

func (f lineFn) DeleteLine(line string) error { return f(line) }

// fakeEditors records every editor invocation as "<editor>:<path>:<identifier>"
type fakeEditors struct {
	root  string
	calls []string
}

func (f *fakeEditors) rel(path string) string {
	rel, err := filepath.Rel(f.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (f *fakeEditors) module(name, path string) editor.ModuleEditor {
	return moduleFn(func(module string) error {
		f.calls = append(f.calls, name+":"+f.rel(path)+":"+module)
		return nil
	})
}

func (f *fakeEditors) driver(name, path string) editor.DriverEditor {
	return driverFn(func(module, driver string) error {
		f.calls = append(f.calls, name+":"+f.rel(path)+":"+module+"/"+driver)
		return nil
	})
}

func (f *fakeEditors) VendorMakefile(path string) editor.ModuleEditor {
	return f.module("makefile", path)
}
func (f *fakeEditors) VendorKconfig(path string) editor.ModuleEditor {
	return f.module("kconfig", path)
}
func (f *fakeEditors) VendorBuild(path string) editor.ModuleEditor { return f.module("build", path) }
func (f *fakeEditors) VendorMk(path string) editor.ModuleEditor    { return f.module("hdf_lite", path) }
func (f *fakeEditors) DotConfig(path string) editor.LineEditor {
	return lineFn(func(line string) error {
		f.calls = append(f.calls, "dot_config:"+f.rel(path)+":"+line)
		return nil
	})
}
func (f *fakeEditors) DeviceInfo(path string) editor.DriverEditor {
	return f.driver("device_info", path)
}
func (f *fakeEditors) ModuleKconfig(path string) editor.DriverEditor {
	return f.driver("module_kconfig", path)
}
func (f *fakeEditors) ModuleMakefile(path string) editor.DriverEditor {
	return f.driver("module_makefile", path)
}
func (f *fakeEditors) DriverConfig(hcsDir string) editor.DriverEditor {
	return f.driver("driver_config", hcsDir)
}

func TestDeleteModuleDispatchOrder(t *testing.T) {
	root := newTree(t)
	eds := &fakeEditors{root: root}

	_, err := New(Options{Editors: eds}).DeleteModule(moduleArgs(root, "usb"))
	require.NoError(t, err)

	expected := []string{
		"makefile:vendor/hisilicon/hdf/Makefile:usb",
		"kconfig:vendor/hisilicon/hdf/Kconfig:usb",
		"build:vendor/hisilicon/hdf/BUILD.gn:usb",
		"hdf_lite:vendor/hisilicon/hdf/hdf_lite.mk:usb",
		"dot_config:device/hisilicon/hispark_taurus/sdk_liteos/config/.config:LOSCFG_DRIVERS_HDF_USB=y",
		"dot_config:kernel/linux/config/hi3516dv300_small_defconfig:CONFIG_DRIVERS_HDF_USB=y",
		"device_info:vendor/hisilicon/hispark_taurus/hdf_config/device_info/device_info.hcs:usb/",
	}
	assert.Equal(t, expected, eds.calls)
}

func TestDeleteDriver(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"vendor/hisilicon/hdf/usb/driver/hmcp/hmcp.c": "int hmcp;\n",
		"vendor/hisilicon/hdf/usb/driver/otg/otg.c":   "int otg;\n",
	})
	eds := &fakeEditors{root: root}
	rec := &memRecorder{}

	err := New(Options{Editors: eds, Recorder: rec}).DeleteDriver(Args{
		RootDir: root, VendorName: vendor, ModuleName: "usb", DriverName: "hmcp", BoardName: board,
	})
	require.NoError(t, err)

	assertGone(t, root, "vendor/hisilicon/hdf/usb/driver/hmcp")
	assertPresent(t, root, "vendor/hisilicon/hdf/usb/driver/otg/otg.c")
	assert.Equal(t, []string{
		"module_kconfig:vendor/hisilicon/hdf/usb/Kconfig:usb/hmcp",
		"module_makefile:vendor/hisilicon/hdf/usb/Makefile:usb/hmcp",
		"driver_config:vendor/hisilicon/hispark_taurus/hdf_config:usb/hmcp",
	}, eds.calls)

	for _, e := range rec.events {
		assert.Equal(t, "hmcp", e.Driver)
		assert.Equal(t, vendor, e.Vendor)
	}
}

func TestDeleteDriverMissingSourcesStillEdits(t *testing.T) {
	root := t.TempDir()
	eds := &fakeEditors{root: root}
	d := &fsops.FakeDeleter{}

	err := New(Options{Editors: eds, Deleter: d}).DeleteDriver(Args{
		RootDir: root, VendorName: vendor, ModuleName: "usb", DriverName: "hmcp", BoardName: board,
	})
	require.NoError(t, err)
	assert.Empty(t, d.Calls)
	assert.Len(t, eds.calls, 3)
}
