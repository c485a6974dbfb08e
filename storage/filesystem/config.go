package filesystem

import (
	"io"
	"os"

	"github.com/yusefsweeney/gitcore/plumbing/format/config"
	"github.com/yusefsweeney/gitcore/storage/filesystem/dotgit"
)

// ConfigStorage reads and writes <gitdir>/config.
type ConfigStorage struct {
	dir *dotgit.DotGit
}

// Config reads the repository's config, returning git's documented
// defaults if no config file has been written yet.
func (c *ConfigStorage) Config() (*config.Config, error) {
	f, err := c.dir.Config()
	if err != nil {
		if os.IsNotExist(err) {
			return config.NewConfig(), nil
		}
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return config.Decode(b)
}

// SetConfig overwrites the repository's config.
func (c *ConfigStorage) SetConfig(cfg *config.Config) error {
	w, err := c.dir.ConfigWriter()
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = w.Write(config.Encode(cfg))
	return err
}
