package catalog

import (
	"context"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

//GitAuth carries basic credentials for private catalog repositories
type GitAuth struct {
	User, Credential string
}

//SyncOptions configure how a catalog repository is synced
type SyncOptions struct {
	BaseDir string // directory to place the catalog checkout in, DefaultCatalogDir when empty
	Auth    *GitAuth
	Depth   int
	//CommitHash pins the catalog to a specific revision; assessments against a
	//pinned catalog stay comparable across evaluations
	CommitHash string
}

//SyncCatalog clones (or fetches, when already present) a catalog repository
//distributed as a git repo of YAML files, returning the directory on disk
//suitable for LoadCatalog
func SyncCatalog(ctx context.Context, repository string, options *SyncOptions) (string, error) {
	repository = strings.ToLower(repository)
	//git@ is not supported, replace with https://
	if strings.HasPrefix(repository, "git@") {
		repository = strings.Replace(strings.Replace(repository, ":", "/", 1), "git@", "https://", 1)
	}

	baseDir := options.BaseDir
	if baseDir == "" {
		baseDir = DefaultCatalogDir
	}

	dir, err := filepath.Abs(path.Clean(path.Join(baseDir, strings.TrimSuffix(path.Base(repository), ".git"))))

	defer func() {
		if err != nil {
			log.Printf("Error syncing catalog: %v, %s\n", err, dir)
		}
	}()

	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	var repo *git.Repository

	var auth *http.BasicAuth
	if options.Auth != nil {
		auth = &http.BasicAuth{
			Username: options.Auth.User,
			Password: options.Auth.Credential,
		}
	}

	if directoryIsEmpty(dir) {

		repo, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:             repository,
			Auth:            auth,
			Depth:           options.Depth,
			InsecureSkipTLS: true, //allow self-signed on-prem catalog servers TODO: make configurable
			NoCheckout:      options.CommitHash != "",
		})

		if err != nil {
			return "", err
		}
	} else {
		//the directory already exists, so, simply fetch if possible
		repo, err = git.PlainOpen(dir)

		if err != nil {
			return "", err
		}

		err = repo.FetchContext(ctx, &git.FetchOptions{
			Auth:            auth,
			Depth:           options.Depth,
			InsecureSkipTLS: true, //allow self-signed on-prem catalog servers TODO: make configurable
		})

		if err != nil && err != git.NoErrAlreadyUpToDate {
			return "", err
		}

		err = nil
	}

	if options.CommitHash != "" {
		w, err := repo.Worktree()
		if err != nil {
			return "", err
		}
		err = w.Checkout(&git.CheckoutOptions{
			Hash: plumbing.NewHash(options.CommitHash),
		})
		if err != nil {
			return "", err
		}
	}
	return dir, nil
}

func directoryIsEmpty(dir string) bool {

	f, err := os.Open(dir)
	if err != nil {
		return false
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	return err == io.EOF

}
