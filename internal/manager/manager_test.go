package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/frederic-klein/yanm/internal/config"
	"github.com/frederic-klein/yanm/internal/dist"
)

type fakeCatalog struct {
	releases []dist.Release
	err      error
	calls    int
}

func (f *fakeCatalog) Fetch(context.Context) ([]dist.Release, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.releases, nil
}

type fakeInstaller struct {
	versionsDir string
	installed   []string
}

func (f *fakeInstaller) Install(_ context.Context, rel dist.Release) (string, error) {
	dir := filepath.Join(f.versionsDir, rel.Version.String())
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0o755); err != nil {
		return "", err
	}
	f.installed = append(f.installed, rel.Version.String())
	return dir, nil
}

type fixture struct {
	m         *Manager
	paths     config.Paths
	catalog   *fakeCatalog
	installer *fakeInstaller
	workDir   string
}

func newFixture(t *testing.T, installed ...string) *fixture {
	t.Helper()
	tmp := t.TempDir()
	paths := config.NewPaths(filepath.Join(tmp, "root"))
	workDir := filepath.Join(tmp, "project")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, v := range installed {
		if err := os.MkdirAll(paths.VersionDir(v), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	catalog := &fakeCatalog{releases: []dist.Release{
		rel("21.1.0", ""),
		rel("20.9.0", "Iron"),
		rel("20.8.0", ""),
		rel("18.18.0", "Hydrogen"),
		rel("18.2.0", "Hydrogen"),
		rel("16.0.0", ""),
	}}
	inst := &fakeInstaller{versionsDir: paths.VersionsDir}
	m := New(Options{Paths: paths, Catalog: catalog, Installer: inst, WorkDir: workDir})
	return &fixture{m: m, paths: paths, catalog: catalog, installer: inst, workDir: workDir}
}

func rel(v, codename string) dist.Release {
	return dist.Release{Version: semver.MustParse(v), LTS: codename != "", Codename: codename}
}

func (f *fixture) writeProjectFile(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(f.workDir, rel)
	os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestManager_Install(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()

	// Act
	res, err := f.m.Install(ctx, "20", false)

	// Assert
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if res.Version != "20.9.0" || res.AlreadyInstalled || res.Activated {
		t.Errorf("Install() = %+v", res)
	}
	if f.m.Current().Active() {
		t.Error("plain install activated a version")
	}

	again, err := f.m.Install(ctx, "20.9.0", false)
	if err != nil {
		t.Fatalf("second Install() error = %v", err)
	}
	if !again.AlreadyInstalled {
		t.Error("second Install() did not report AlreadyInstalled")
	}
	if len(f.installer.installed) != 1 {
		t.Errorf("installer ran %d times, want 1", len(f.installer.installed))
	}
}

func TestManager_Install_Default(t *testing.T) {
	f := newFixture(t)

	res, err := f.m.Install(context.Background(), "lts", true)

	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if res.Version != "20.9.0" || !res.Activated || !res.Default {
		t.Errorf("Install() = %+v", res)
	}
	if got := f.m.Current().Version; got != "20.9.0" {
		t.Errorf("Current() = %q, want 20.9.0", got)
	}
	aliases, _ := f.m.Aliases()
	if aliases["default"] != "20.9.0" {
		t.Errorf("default alias = %q", aliases["default"])
	}
}

func TestManager_Install_Inferred(t *testing.T) {
	f := newFixture(t)
	f.writeProjectFile(t, "package.json", `{"engines": {"node": "^18.0.0"}}`)

	res, err := f.m.Install(context.Background(), "", false)

	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if res.Version != "18.18.0" || res.Spec != "^18.0.0" {
		t.Errorf("Install() = %+v", res)
	}
}

func TestManager_Install_NothingToInfer(t *testing.T) {
	f := newFixture(t)

	_, err := f.m.Install(context.Background(), "", false)

	if !errors.Is(err, dist.ErrInvalidVersion) {
		t.Errorf("Install() error = %v, want ErrInvalidVersion", err)
	}
}

func TestManager_Install_InvalidSpecNoFetch(t *testing.T) {
	f := newFixture(t)

	_, err := f.m.Install(context.Background(), ">=foo", false)

	if !errors.Is(err, dist.ErrInvalidVersion) {
		t.Errorf("Install() error = %v, want ErrInvalidVersion", err)
	}
	if f.catalog.calls != 0 {
		t.Errorf("catalog fetched %d times for an invalid spec", f.catalog.calls)
	}
}

func TestManager_Use(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		aliases map[string]string
		want    string
		wantErr error
	}{
		{name: "exact", spec: "16.0.0", want: "16.0.0"},
		{name: "major", spec: "18", want: "18.2.0"},
		{name: "alias", spec: "stable", aliases: map[string]string{"stable": "16.0.0"}, want: "16.0.0"},
		{name: "alias shadows keyword", spec: "latest", aliases: map[string]string{"latest": "14"}, want: "14.0.0"},
		{name: "not installed", spec: "20", wantErr: dist.ErrVersionNotInstalled},
		{name: "invalid", spec: "stable", wantErr: dist.ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, "14.0.0", "16.0.0", "18.2.0")
			for name, v := range tt.aliases {
				if err := f.m.SetAlias(name, v); err != nil {
					t.Fatal(err)
				}
			}

			// Act
			res, err := f.m.Use(context.Background(), tt.spec, false)

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Use(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if f.m.Current().Active() {
					t.Error("failed Use() activated a version")
				}
				return
			}
			if res.Version != tt.want {
				t.Errorf("Use(%q) = %s, want %s", tt.spec, res.Version, tt.want)
			}
			if got := f.m.Current().Version; got != tt.want {
				t.Errorf("Current() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManager_Use_AlreadyActive(t *testing.T) {
	f := newFixture(t, "18.2.0")
	ctx := context.Background()
	if _, err := f.m.Use(ctx, "18.2.0", false); err != nil {
		t.Fatal(err)
	}

	res, err := f.m.Use(ctx, "18", false)

	if err != nil {
		t.Fatalf("Use() error = %v", err)
	}
	if !res.AlreadyActive {
		t.Error("Use() of the active version did not report AlreadyActive")
	}
}

func TestManager_Use_DefaultAndInferred(t *testing.T) {
	f := newFixture(t, "16.0.0", "18.2.0")
	ctx := context.Background()

	if _, err := f.m.Use(ctx, "16", true); err != nil {
		t.Fatalf("Use(--default) error = %v", err)
	}
	aliases, _ := f.m.Aliases()
	if aliases["default"] != "16.0.0" {
		t.Errorf("default alias = %q, want 16.0.0", aliases["default"])
	}

	// With no spec and no project file the default alias applies.
	res, err := f.m.Use(ctx, "", false)
	if err != nil || res.Version != "16.0.0" {
		t.Errorf("Use(\"\") = %+v, %v", res, err)
	}

	// A project declaration wins over the default alias.
	f.writeProjectFile(t, ".nvmrc", "v18.2.0\n")
	res, err = f.m.Use(ctx, "", false)
	if err != nil || res.Version != "18.2.0" {
		t.Errorf("Use(\"\") with .nvmrc = %+v, %v", res, err)
	}
}

func TestManager_Which(t *testing.T) {
	t.Run("project file wins", func(t *testing.T) {
		f := newFixture(t, "16.0.0")
		f.m.SetAlias("default", "16.0.0")
		f.m.Use(context.Background(), "16.0.0", false)
		f.writeProjectFile(t, "sub/.nvmrc", "v18.2.0")
		f.m.workDir = filepath.Join(f.workDir, "sub")

		eff, err := f.m.Which(context.Background())

		if err != nil {
			t.Fatalf("Which() error = %v", err)
		}
		if eff.Source != SourceProject || eff.Spec != "18.2.0" {
			t.Errorf("Which() = %+v, want 18.2.0 from project", eff)
		}
		if eff.Path != filepath.Join(f.workDir, "sub", ".nvmrc") {
			t.Errorf("Which() path = %q", eff.Path)
		}
		if eff.Version != "" {
			t.Errorf("Which() version = %q, want empty for an uninstalled declaration", eff.Version)
		}
	})

	t.Run("current pointer", func(t *testing.T) {
		f := newFixture(t, "16.0.0", "18.2.0")
		f.m.SetAlias("default", "16.0.0")
		f.m.Use(context.Background(), "18.2.0", false)

		eff, err := f.m.Which(context.Background())

		if err != nil {
			t.Fatalf("Which() error = %v", err)
		}
		if eff.Source != SourceCurrent || eff.Version != "18.2.0" {
			t.Errorf("Which() = %+v, want current 18.2.0", eff)
		}
	})

	t.Run("default alias", func(t *testing.T) {
		f := newFixture(t, "20.9.0")
		f.m.SetAlias("default", "20.9.0")

		eff, err := f.m.Which(context.Background())

		if err != nil {
			t.Fatalf("Which() error = %v", err)
		}
		if eff.Source != SourceDefault || eff.Spec != "20.9.0" || eff.Version != "20.9.0" {
			t.Errorf("Which() = %+v, want 20.9.0 from default alias", eff)
		}
	})

	t.Run("none", func(t *testing.T) {
		f := newFixture(t)

		eff, err := f.m.Which(context.Background())

		if err != nil {
			t.Fatalf("Which() error = %v", err)
		}
		if eff.Source != SourceNone {
			t.Errorf("Which() = %+v, want none", eff)
		}
	})
}

func TestManager_Which_UnresolvedDeclaration(t *testing.T) {
	tests := []struct {
		name       string
		nvmrc      string
		catalogErr error
		wantErr    error
		want       string
	}{
		{name: "lts online", nvmrc: "lts/*", want: "18.18.0"},
		{name: "lts offline", nvmrc: "lts/*", catalogErr: fmt.Errorf("%w: offline", dist.ErrDownload), wantErr: dist.ErrDownload},
		{name: "unparseable", nvmrc: "foo", wantErr: dist.ErrInvalidVersion},
		{name: "not installed", nvmrc: "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, "18.18.0")
			f.catalog.err = tt.catalogErr
			f.writeProjectFile(t, ".nvmrc", tt.nvmrc+"\n")

			// Act
			eff, err := f.m.Which(context.Background())

			// Assert
			if err != nil {
				t.Fatalf("Which() error = %v", err)
			}
			if eff.Source != SourceProject || eff.Spec != tt.nvmrc {
				t.Errorf("Which() = %+v, want %q from project", eff, tt.nvmrc)
			}
			if eff.Version != tt.want {
				t.Errorf("Which() version = %q, want %q", eff.Version, tt.want)
			}
			if tt.wantErr == nil && eff.Err != nil {
				t.Errorf("Which() Err = %v, want nil", eff.Err)
			}
			if tt.wantErr != nil && !errors.Is(eff.Err, tt.wantErr) {
				t.Errorf("Which() Err = %v, want %v", eff.Err, tt.wantErr)
			}
		})
	}
}

func TestManager_Uninstall(t *testing.T) {
	f := newFixture(t, "16.0.0", "18.2.0")
	ctx := context.Background()
	if _, err := f.m.Use(ctx, "18.2.0", false); err != nil {
		t.Fatal(err)
	}

	if _, err := f.m.Uninstall(ctx, "18.2.0"); !errors.Is(err, dist.ErrVersionInUse) {
		t.Errorf("Uninstall(active) error = %v, want ErrVersionInUse", err)
	}
	if _, err := f.m.Uninstall(ctx, "20.0.0"); !errors.Is(err, dist.ErrVersionNotInstalled) {
		t.Errorf("Uninstall(missing) error = %v, want ErrVersionNotInstalled", err)
	}

	version, err := f.m.Uninstall(ctx, "v16.0.0")
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if version != "16.0.0" {
		t.Errorf("Uninstall() = %q", version)
	}
	if _, err := os.Stat(f.paths.VersionDir("16.0.0")); !os.IsNotExist(err) {
		t.Error("version directory still present")
	}
	if got := f.m.Current().Version; got != "18.2.0" {
		t.Errorf("Current() = %q after uninstalling another version", got)
	}
}

func TestManager_Upgrade(t *testing.T) {
	f := newFixture(t, "18.2.0")
	ctx := context.Background()

	if _, err := f.m.Upgrade(ctx, ""); !errors.Is(err, dist.ErrVersionNotInstalled) {
		t.Errorf("Upgrade() with nothing active error = %v, want ErrVersionNotInstalled", err)
	}

	f.m.Use(ctx, "18.2.0", false)
	res, err := f.m.Upgrade(ctx, "")
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if res.From != "18.2.0" || res.To != "18.18.0" || res.AlreadyLatest {
		t.Errorf("Upgrade() = %+v", res)
	}
	if got := f.m.Current().Version; got != "18.18.0" {
		t.Errorf("Current() = %q, want 18.18.0", got)
	}

	res, err = f.m.Upgrade(ctx, "")
	if err != nil {
		t.Fatalf("second Upgrade() error = %v", err)
	}
	if !res.AlreadyLatest {
		t.Errorf("second Upgrade() = %+v, want AlreadyLatest", res)
	}

	res, err = f.m.Upgrade(ctx, "latest")
	if err != nil {
		t.Fatalf("Upgrade(latest) error = %v", err)
	}
	if res.To != "21.1.0" || f.m.Current().Version != "21.1.0" {
		t.Errorf("Upgrade(latest) = %+v, current %q", res, f.m.Current().Version)
	}
}

func TestManager_ListRemote(t *testing.T) {
	f := newFixture(t, "20.9.0", "16.0.0")
	f.m.Use(context.Background(), "20.9.0", false)

	all, err := f.m.ListRemote(context.Background(), false)
	if err != nil {
		t.Fatalf("ListRemote() error = %v", err)
	}
	if len(all.Releases) != 6 {
		t.Errorf("ListRemote() returned %d releases, want 6", len(all.Releases))
	}
	if !all.Installed["16.0.0"] || !all.Installed["20.9.0"] || all.Installed["21.1.0"] {
		t.Errorf("Installed = %v", all.Installed)
	}
	if all.Current != "20.9.0" {
		t.Errorf("Current = %q", all.Current)
	}

	lts, err := f.m.ListRemote(context.Background(), true)
	if err != nil {
		t.Fatalf("ListRemote(lts) error = %v", err)
	}
	for _, r := range lts.Releases {
		if !r.LTS {
			t.Errorf("non-LTS release %s in LTS listing", r.Version)
		}
	}
	if len(lts.Releases) != 3 {
		t.Errorf("ListRemote(lts) returned %d releases, want 3", len(lts.Releases))
	}
}

func TestManager_Local(t *testing.T) {
	f := newFixture(t)
	f.m.SetAlias("work", "18.18.0")

	tests := []struct {
		spec string
		want string
	}{
		{"v20.9.0", "20.9.0"},
		{"lts/iron", "lts/iron"},
		{"work", "18.18.0"},
	}
	for _, tt := range tests {
		path, version, err := f.m.Local(tt.spec)
		if err != nil {
			t.Fatalf("Local(%q) error = %v", tt.spec, err)
		}
		if version != tt.want {
			t.Errorf("Local(%q) = %q, want %q", tt.spec, version, tt.want)
		}
		data, _ := os.ReadFile(path)
		if string(data) != tt.want+"\n" {
			t.Errorf("override file = %q", data)
		}
	}

	if _, _, err := f.m.Local("not a version"); !errors.Is(err, dist.ErrInvalidVersion) {
		t.Errorf("Local(invalid) error = %v, want ErrInvalidVersion", err)
	}
}

func TestManager_Aliases(t *testing.T) {
	f := newFixture(t)

	if err := f.m.SetAlias("stable", "16.0.0"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}
	if err := f.m.RemoveAlias("stable"); err != nil {
		t.Fatalf("RemoveAlias() error = %v", err)
	}
	if err := f.m.RemoveAlias("stable"); !errors.Is(err, dist.ErrAlias) {
		t.Errorf("RemoveAlias(missing) error = %v, want ErrAlias", err)
	}
}
