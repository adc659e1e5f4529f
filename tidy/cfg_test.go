package tidy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test120ConfigFileAndFlags(t *testing.T) {

	cv.Convey(`Given a config file and command line flags, explicitly given flags should win and the file should fill in the rest`, t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "tidy.yaml")
		panicOn(os.WriteFile(path, []byte("trace: false\nquiet: true\nprompt: \"> \"\nmaxdepth: 10\n"), 0644))

		cfg := NewTidyConfig("tidy-test")
		cfg.DefineFlags()
		panicOn(cfg.Flags.Parse([]string{"-trace", "-config", path}))
		panicOn(cfg.ValidateConfig())

		cv.So(cfg.Trace, cv.ShouldBeTrue)
		cv.So(cfg.Quiet, cv.ShouldBeTrue)
		cv.So(cfg.Prompt, cv.ShouldEqual, "> ")
		cv.So(cfg.MaxDepth, cv.ShouldEqual, 10)

		ev := NewConfiguredEvaluator(cfg)
		cv.So(ev.Trace, cv.ShouldBeTrue)
		cv.So(ev.MaxDepth, cv.ShouldEqual, 10)
	})

	cv.Convey(`Given no config file, the defaults should apply, and inconsistent data flags should be rejected`, t, func() {
		cfg := NewTidyConfig("tidy-test")
		cfg.DefineFlags()
		panicOn(cfg.Flags.Parse(nil))
		panicOn(cfg.ValidateConfig())
		cv.So(cfg.Prompt, cv.ShouldEqual, "tidy> ")
		cv.So(cfg.MaxDepth, cv.ShouldEqual, DefaultMaxDepth)

		cfg = NewTidyConfig("tidy-test")
		cfg.DefineFlags()
		panicOn(cfg.Flags.Parse([]string{"-query", "select 1"}))
		cv.So(cfg.ValidateConfig(), cv.ShouldNotBeNil)

		cfg = NewTidyConfig("tidy-test")
		cfg.DefineFlags()
		panicOn(cfg.Flags.Parse([]string{"-query", "select 1", "-driver", "sqlite", "-dsn", "x.db", "-data", "d.json"}))
		cv.So(cfg.ValidateConfig(), cv.ShouldNotBeNil)

		cfg = NewTidyConfig("tidy-test")
		cfg.DefineFlags()
		panicOn(cfg.Flags.Parse([]string{"-config", filepath.Join(t.TempDir(), "absent.yaml")}))
		cv.So(cfg.ValidateConfig(), cv.ShouldNotBeNil)
	})
}

func Test121LoadDataSourceByExtension(t *testing.T) {

	cv.Convey(`Given -data files in json, yaml and bsave form, each should load as the same named list`, t, func() {
		dir := t.TempDir()
		want := `(list x: 1 y: "two")`
		ctx := context.Background()

		jpath := filepath.Join(dir, "d.json")
		panicOn(os.WriteFile(jpath, []byte(`{"x": 1, "y": "two"}`), 0644))
		ypath := filepath.Join(dir, "d.yml")
		panicOn(os.WriteFile(ypath, []byte("x: 1\ny: two\n"), 0644))
		bpath := filepath.Join(dir, "d.bsave")
		panicOn(SaveDataFile(bpath, MakeNamedList([]string{"x", "y"}, []Sexp{&SexpInt{Val: 1}, &SexpStr{S: "two"}})))

		for _, p := range []string{jpath, ypath, bpath} {
			cfg := &TidyConfig{Data: p}
			x, err := cfg.LoadDataSource(ctx)
			panicOn(err)
			cv.So(x.SexpString(nil), cv.ShouldEqual, want)
		}

		cfg := &TidyConfig{Data: filepath.Join(dir, "d.csv")}
		_, err := cfg.LoadDataSource(ctx)
		cv.So(err, cv.ShouldNotBeNil)

		cfg = &TidyConfig{}
		x, err := cfg.LoadDataSource(ctx)
		panicOn(err)
		cv.So(x, cv.ShouldBeNil)
	})

	cv.Convey(`Given -query against sqlite, the result columns should become the data`, t, func() {
		cfg := &TidyConfig{
			Driver: "sqlite",
			DSN:    filepath.Join(t.TempDir(), "q.db"),
			Query:  "SELECT 3 AS n, 'v' AS s",
		}
		x, err := cfg.LoadDataSource(context.Background())
		panicOn(err)
		cv.So(x.SexpString(nil), cv.ShouldEqual, `(list n: (list 3) s: (list "v"))`)
	})
}
