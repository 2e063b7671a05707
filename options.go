package apidoc

import (
	"log/slog"

	"github.com/rs/cors"
)

// AuthFunc decides whether a request with apiKey may call method on the
// OpenAPI path.
type AuthFunc func(apiKey, path, method string) bool

// Option configures an [API].
type Option func(*API) error

// WithTitle sets info.title. It defaults to the binary name.
func WithTitle(title string) Option {
	return infoOption("title", title)
}

// WithDescription sets info.description.
func WithDescription(desc string) Option {
	return infoOption("description", desc)
}

// WithVersion sets info.version. It defaults to "0.0".
func WithVersion(version string) Option {
	return infoOption("version", version)
}

// WithTermsOfService sets info.termsOfService.
func WithTermsOfService(url string) Option {
	return infoOption("termsOfService", url)
}

// WithContact sets info.contact.
func WithContact(name, url, email string) Option {
	return func(a *API) error {
		contact := Object{}
		for k, v := range map[string]string{"name": name, "url": url, "email": email} {
			if v != "" {
				contact[k] = v
			}
		}
		SetNested(a.base, "info.contact", contact)
		return nil
	}
}

// WithLicense sets info.license.
func WithLicense(name, url string) Option {
	return func(a *API) error {
		license := Object{"name": name}
		if url != "" {
			license["url"] = url
		}
		SetNested(a.base, "info.license", license)
		return nil
	}
}

// WithServers replaces the servers list with one entry per url.
func WithServers(urls ...string) Option {
	return func(a *API) error {
		servers := make([]any, len(urls))
		for i, u := range urls {
			servers[i] = Object{"url": u}
		}
		a.base["servers"] = servers
		return nil
	}
}

// WithSpecBase replaces the base document. Options applied after it modify
// the copy.
func WithSpecBase(base Object) Option {
	return func(a *API) error {
		a.base = base.Copy()
		return nil
	}
}

// WithSpecURL sets the path the document is served under, without
// extension. It defaults to "/api/swagger".
func WithSpecURL(url string) Option {
	return func(a *API) error {
		a.specURL = url
		return nil
	}
}

// WithoutSpecResource skips registering the document endpoints.
func WithoutSpecResource() Option {
	return func(a *API) error {
		a.addSpec = false
		return nil
	}
}

// WithPrefix sets the path prefix of resources and document endpoints. It
// must start with a / and must not end with one.
func WithPrefix(prefix string) Option {
	return func(a *API) error {
		a.prefix = prefix
		return nil
	}
}

// WithAuth sets the function consulted by [API.AuthRequired].
func WithAuth(fn AuthFunc) Option {
	return func(a *API) error {
		a.auth = fn
		return nil
	}
}

// WithLogger sets the logger. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) error {
		a.logger = l
		return nil
	}
}

// WithSourceDocs reads the doc comments of the Go package in dir. Handler
// comments fill operation summaries and descriptions, type comments model
// descriptions.
func WithSourceDocs(dir string) Option {
	return func(a *API) error {
		if a.docs == nil {
			a.docs = NewCommentParser()
		}
		return a.docs.ParseDir(dir)
	}
}

// WithCORS sets the CORS policy of the document endpoints. Every origin is
// allowed by default.
func WithCORS(opts cors.Options) Option {
	return func(a *API) error {
		a.cors = cors.New(opts)
		return nil
	}
}

func infoOption(key, value string) Option {
	return func(a *API) error {
		SetNested(a.base, "info."+key, value)
		return nil
	}
}
