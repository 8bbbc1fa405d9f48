package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/docopt/docopt-go"

	"github.com/xnat/docsync/internal/cmd/base"
	"github.com/xnat/docsync/internal/version"
	"github.com/xnat/docsync/pkg/confluence"
	"github.com/xnat/docsync/pkg/publish"
)

const usage = `Publish a storage-format page to the wiki as a new version.

The page id comes from -i, or from an "id: 31457" field in a comment on the
first line, such as <!-- id: 31457 -->. Any words after the file become the
version message. Message words that look like flags, such as -h, must follow
a "--" separator:

    docsync publish alice secret page.html -- explain the -h flag

Usage:
    docsync publish [options] <username> <password> <file> [--] [<message>...]
    docsync publish --version

Options:
    -h --help           Show this screen.
    --version           Show version.
    -i --id=<postId>    Page id. Overrides the id marker.
    -c --config=<file>  Path to a docsync config file.
    --host=<url>        Wiki base URL. Overrides the config file.
    -o --open           Open the published page in a browser.`

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Publish a converted page to Confluence"
}

func (c *Command) Help() string {
	return usage
}

// args holds the parsed command line.
type args struct {
	Username string
	Password string
	File     string
	Message  []string
	PostID   string
	Config   string
	Host     string
	Open     bool
}

// parse reads argv with docopt. done is true when docopt already answered
// the request (help, version or a usage error).
func (c *Command) parse(argv []string) (a *args, done bool, err error) {
	// The usage patterns name the subcommand, which the CLI has consumed.
	argv = append([]string{"publish"}, argv...)

	var handled bool
	parser := &docopt.Parser{
		HelpHandler: func(err error, out string) {
			handled = true
			if err != nil {
				c.UI.Error(fmt.Sprintf("error parsing arguments: %v", err))
				c.UI.Error(out)
				return
			}
			c.UI.Output(out)
		},
	}

	opts, err := parser.ParseArgs(usage, argv, version.Version)
	if err != nil {
		return nil, true, err
	}
	if handled {
		return nil, true, nil
	}

	a = &args{}
	a.Username, _ = opts.String("<username>")
	a.Password, _ = opts.String("<password>")
	a.File, _ = opts.String("<file>")
	if words, ok := opts["<message>"].([]string); ok {
		a.Message = words
	}
	a.PostID, _ = opts.String("--id")
	a.Config, _ = opts.String("--config")
	a.Host, _ = opts.String("--host")
	a.Open, _ = opts.Bool("--open")

	return a, false, nil
}

func (c *Command) Run(argv []string) int {
	a, done, err := c.parse(argv)
	if err != nil {
		return 1
	}
	if done {
		return 0
	}

	cfg, err := c.LoadConfig(a.Config)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	wikiCfg, err := cfg.ConfluenceConfig()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if a.Host != "" {
		wikiCfg.BaseURL = a.Host
	}
	wikiCfg.Username = a.Username
	wikiCfg.Password = a.Password
	wikiCfg.UserAgent = "docsync/" + version.Version

	client, err := confluence.NewClient(wikiCfg, c.Log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error configuring wiki client: %v", err))
		return 1
	}

	publisher, err := publish.New(publish.Config{
		Store:          client,
		Fs:             c.Fs,
		DefaultMessage: cfg.Confluence.DefaultMessage,
		Logger:         c.Log,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating publisher: %v", err))
		return 1
	}

	result, err := publisher.Publish(context.Background(), publish.Request{
		PostID:  a.PostID,
		Path:    a.File,
		Message: a.Message,
	})
	if err != nil {
		c.reportError(err)
		return 1
	}

	c.UI.Info(fmt.Sprintf("Published %q (%s) version %d: %s",
		result.Title, result.PostID, result.Version, result.Message))
	if result.WebURL != "" {
		c.UI.Output(result.WebURL)
	}

	if a.Open {
		if result.WebURL == "" {
			c.UI.Warn("wiki did not return a page link; not opening a browser")
		} else if err := openBrowser(result.WebURL); err != nil {
			c.UI.Warn(err.Error())
		}
	}

	return 0
}

// reportError prints a publish failure. A rejected upload prints the remote
// status and message before the full error; a failed read prints one line.
func (c *Command) reportError(err error) {
	apiErr, isAPI := confluence.AsAPIError(err)

	switch publish.KindOf(err) {
	case publish.RemoteWriteError:
		c.UI.Error("Upload failed")
		if isAPI {
			c.UI.Error(apiErr.Detail())
		}
	case publish.RemoteReadError:
		if isAPI {
			c.UI.Error(fmt.Sprintf("Could not read post: %s", strings.TrimSpace(apiErr.Detail())))
			return
		}
	}
	c.UI.Error(err.Error())
}
