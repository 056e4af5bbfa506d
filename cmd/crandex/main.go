// Command crandex is a driver over the crandex core: it reads DCF package
// metadata files, resolves dependencies, and reports the results on the
// diagnostic stream. It is a thin shell around the repo/dcffile packages,
// not part of the core itself (see the concurrency model in spec §5).
package main

import (
	"fmt"
	"os"

	"github.com/blang/semver/v4"
	"github.com/spf13/pflag"

	"github.com/crandex/crandex/dcffile"
	"github.com/crandex/crandex/repo"
	"github.com/crandex/crandex/version"
)

// releaseVersion identifies the version of crandex. This can be modified by
// CI during the release process, mirroring rope's `Version` var.
var releaseVersion = "0.1.0"

const defaultHelp = `crandex inspects R package repository metadata (DCF/PACKAGES files)

Usage:

  crandex <command> [options] [args...]

The commands are:

  broken        report packages whose dependencies cannot be satisfied
  can-install   check whether a named package's dependencies are satisfiable
  depends       print a package's transitive dependency closure
  satisfies     check whether a single "name (op version)" requirement holds
  bioc-urls     print Bioconductor repository URLs for a release
  version       show crandex version
`

func run(args []string) (int, error) {
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}

	switch arg {
	case "", "help", "--help", "-h":
		fmt.Print(defaultHelp)
		return 2, nil
	case "version", "--version":
		v := semver.MustParse(releaseVersion)
		fmt.Printf("crandex version: %s\n", v)
		return 0, nil
	case "broken":
		return runBroken(args[2:])
	case "can-install":
		return runCanInstall(args[2:])
	case "depends":
		return runDepends(args[2:])
	case "satisfies":
		return runSatisfies(args[2:])
	case "bioc-urls":
		return runBiocURLs(args[2:])
	default:
		fmt.Printf("crandex %s: unknown command\n", arg)
		return 2, nil
	}
}

func newFlagSet(name string) (*pflag.FlagSet, *bool) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	quiet := fs.BoolP("quiet", "q", false, "suppress progress on the diagnostic stream")
	return fs, quiet
}

func loadRepository(files []string) (*repo.Repository, error) {
	r := repo.New()
	for _, path := range files {
		data, err := dcffile.Read(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if _, err := r.Read(path, data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return r, nil
}

func runBroken(args []string) (int, error) {
	fs, quiet := newFlagSet("broken")
	if err := fs.Parse(args); err == pflag.ErrHelp {
		return 0, nil
	} else if err != nil {
		return 2, err
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "crandex broken: no files provided")
		return 2, nil
	}

	r, err := loadRepository(files)
	if err != nil {
		return 1, err
	}
	idx := r.CreateIndex()

	broken := 0
	for _, pkg := range r.Iter() {
		name := r.Interner().String(pkg.Name)
		unmet, err := idx.Unmet(name)
		if err != nil {
			return 1, err
		}
		if len(unmet) == 0 {
			continue
		}
		broken++
		if !*quiet {
			for _, nvc := range unmet {
				fmt.Fprintf(os.Stderr, "%s: missing %s %s\n", name, nvc.Constraint.Operator, nvc.Constraint.Version)
			}
		}
	}

	if broken > 0 {
		return 1, nil
	}
	return 0, nil
}

func runCanInstall(args []string) (int, error) {
	fs, quiet := newFlagSet("can-install")
	if err := fs.Parse(args); err == pflag.ErrHelp {
		return 0, nil
	} else if err != nil {
		return 2, err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "crandex can-install: package name and at least one file required")
		return 2, nil
	}
	name, files := rest[0], rest[1:]

	r, err := loadRepository(files)
	if err != nil {
		return 1, err
	}
	idx := r.CreateIndex()

	unmet, err := idx.Unmet(name)
	if err != nil {
		return 1, err
	}
	if len(unmet) > 0 {
		if !*quiet {
			for _, nvc := range unmet {
				fmt.Fprintf(os.Stderr, "%s: missing %s %s\n", name, nvc.Constraint.Operator, nvc.Constraint.Version)
			}
		}
		return 1, nil
	}
	return 0, nil
}

func runDepends(args []string) (int, error) {
	fs, _ := newFlagSet("depends")
	if err := fs.Parse(args); err == pflag.ErrHelp {
		return 0, nil
	} else if err != nil {
		return 2, err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "crandex depends: package name and at least one file required")
		return 2, nil
	}
	name, files := rest[0], rest[1:]

	r, err := loadRepository(files)
	if err != nil {
		return 1, err
	}

	closure, err := r.TransitiveDependenciesNoBase(name, version.Any())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return 1, nil
	}

	for _, nvc := range closure {
		fmt.Printf("%s %s %s\n", r.Interner().String(nvc.Name), nvc.Constraint.Operator, nvc.Constraint.Version)
	}
	return 0, nil
}

// runSatisfies checks a single "name (op version)" requirement, parsed
// directly from the command line via version.ParseNameVersionConstraint,
// against the package table assembled from files.
func runSatisfies(args []string) (int, error) {
	fs, quiet := newFlagSet("satisfies")
	if err := fs.Parse(args); err == pflag.ErrHelp {
		return 0, nil
	} else if err != nil {
		return 2, err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "crandex satisfies: requirement and at least one file required")
		return 2, nil
	}
	requirement, files := rest[0], rest[1:]

	r, err := loadRepository(files)
	if err != nil {
		return 1, err
	}

	nvc, err := version.ParseNameVersionConstraint(r.Interner(), requirement)
	if err != nil {
		fmt.Fprintf(os.Stderr, "crandex satisfies: %v\n", err)
		return 2, nil
	}

	idx := r.CreateIndex()
	unsatisfied := idx.Unsatisfied([]version.NameVersionConstraint{nvc})
	if len(unsatisfied) > 0 {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "%s: not satisfied\n", requirement)
		}
		return 1, nil
	}
	return 0, nil
}

// biocReleases maps a Bioconductor release version to its repository path
// segment. Bioconductor does not expose a discoverable index of historical
// release paths, so this table is maintained by hand; it is not network
// I/O, just string formatting over known constants.
var biocReleases = map[string]string{
	"3.18": "3.18",
	"3.19": "3.19",
	"3.20": "3.20",
}

func runBiocURLs(args []string) (int, error) {
	fs, _ := newFlagSet("bioc-urls")
	if err := fs.Parse(args); err == pflag.ErrHelp {
		return 0, nil
	} else if err != nil {
		return 2, err
	}
	rest := fs.Args()
	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "crandex bioc-urls: release version required")
		return 2, nil
	}

	release, ok := biocReleases[rest[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "crandex bioc-urls: unknown release %q\n", rest[0])
		return 1, nil
	}

	const base = "https://bioconductor.org/packages"
	fmt.Printf("%s/%s/bioc\n", base, release)
	fmt.Printf("%s/%s/data/annotation\n", base, release)
	fmt.Printf("%s/%s/data/experiment\n", base, release)
	fmt.Printf("%s/%s/workflows\n", base, release)
	return 0, nil
}

func main() {
	exitCode, err := run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(exitCode)
}
