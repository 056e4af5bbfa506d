package repo

// base lists the R packages shipped with every base installation.
var base = []string{
	"base", "compiler", "datasets", "graphics", "grDevices", "grid",
	"methods", "parallel", "splines", "stats", "stats4", "tcltk", "tools",
	"utils", "R",
}

// recommended lists the packages bundled with a standard R installation
// but distributed as ordinary CRAN packages.
var recommended = []string{
	"boot", "class", "MASS", "cluster", "codetools", "foreign",
	"KernSmooth", "lattice", "Matrix", "mgcv", "nlme", "nnet", "rpart",
	"spatial", "survival",
}

// IsBase reports whether name is one of the base R packages.
func IsBase(name string) bool {
	return contains(base, name)
}

// IsRecommended reports whether name is one of the recommended packages
// bundled with a standard R installation.
func IsRecommended(name string) bool {
	return contains(recommended, name)
}

// IsBaseOrRecommended reports whether name is privileged: assumed present
// in every environment and therefore exempt from dependency resolution.
func IsBaseOrRecommended(name string) bool {
	return IsBase(name) || IsRecommended(name)
}

func contains(set []string, name string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}
