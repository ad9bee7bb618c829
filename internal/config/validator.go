package config

import (
	"fmt"

	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/parity"
	"github.com/mrz1836/go-leanclone/internal/validation"
)

// Validate checks every field and returns all problems joined
func (c *Config) Validate() error {
	result := validation.NewValidationResult()

	result.AddError(validation.ValidateNonEmpty("data_dir", c.DataDir))
	result.AddError(validation.ValidateNonEmpty("tool", c.Tool))
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result.AddError(appErrors.InvalidFieldError("log_level", c.LogLevel))
	}

	names := make(map[string]bool, len(c.Repos))
	for i, repo := range c.Repos {
		field := fmt.Sprintf("repos[%d]", i)
		if repo.Name != "" {
			if names[repo.Name] {
				result.AddError(appErrors.InvalidFieldError(field+".name", "duplicate "+repo.Name))
			}
			names[repo.Name] = true
		}
		if _, err := repo.Case(); err != nil {
			result.AddError(fmt.Errorf("%s: %w", field, err))
		}
	}

	return result.AllErrors()
}

// Case converts the entry into a parity case
func (r RepoConfig) Case() (parity.Case, error) {
	c := parity.Case{
		Name:   r.Name,
		Source: r.Source,
		Ref:    r.Ref,
		Subdir: r.Subdir,
		Skip:   r.Skip,
		Self:   r.Self,
	}

	for _, name := range r.Needs {
		need, ok := parity.ParseNeed(name)
		if !ok {
			return parity.Case{}, appErrors.InvalidFieldError("needs", name)
		}
		c.Needs |= need
	}

	if err := validation.ValidateRelativePath(r.Subdir, "subdir"); err != nil {
		return parity.Case{}, err
	}

	switch {
	case r.Self && r.Source != "":
		return parity.Case{}, appErrors.InvalidFieldError("source", "self cases take no source")
	case r.Self:
	default:
		if err := validation.ValidateSource(r.Source, r.Ref); err != nil {
			return parity.Case{}, err
		}
	}

	return c, nil
}

// Cases converts every repo entry
func (c *Config) Cases() ([]parity.Case, error) {
	cases := make([]parity.Case, 0, len(c.Repos))
	for _, repo := range c.Repos {
		pc, err := repo.Case()
		if err != nil {
			return nil, err
		}
		cases = append(cases, pc)
	}
	return cases, nil
}
