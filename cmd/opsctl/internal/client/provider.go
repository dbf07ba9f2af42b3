package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/auth"
	"github.com/Sarvesh5273/PhantomOps/pkg/authflow"
	"github.com/Sarvesh5273/PhantomOps/pkg/identity"
	"github.com/Sarvesh5273/PhantomOps/pkg/sdk"
	"go.uber.org/zap"
)

// Provider wires the session core together once per process and yields
// the shared pieces to commands: the credential store, the identity
// provider, the acquirer, the lifecycle observer, and an SDK client
// whose transport propagates the current bearer token.
type Provider struct {
	serverURL   string
	identityURL string
	clientID    string
	log         *zap.Logger

	initOnce sync.Once
	initErr  error

	fileStore *auth.FileStore
	store     *authflow.Store
	idp       *identity.HTTPProvider
	resolver  *authflow.RoleResolver
	acquirer  *authflow.Acquirer
	observer  *authflow.Observer
	sdkClient *sdk.Client

	bootstrapOnce sync.Once
	bootstrapErr  error
}

// NewProvider constructs a Provider bound to the given endpoints.
func NewProvider(serverURL, identityURL, clientID string, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		serverURL:   serverURL,
		identityURL: identityURL,
		clientID:    clientID,
		log:         log,
	}
}

func (p *Provider) init() error {
	p.initOnce.Do(func() {
		fileStore, err := auth.NewFileStore()
		if err != nil {
			p.initErr = fmt.Errorf("failed to create session file store: %w", err)
			return
		}
		p.fileStore = fileStore

		p.store = authflow.NewStore()
		p.idp = identity.NewHTTPProvider(p.identityURL, p.clientID, identity.WithLogger(p.log))

		directory := identity.NewHTTPDirectory(p.identityURL)
		p.resolver = authflow.NewRoleResolver(directory,
			authflow.WithNameStash(fileStore),
			authflow.WithResolverLogger(p.log))

		p.acquirer = authflow.NewAcquirer(p.idp, p.resolver, p.store,
			authflow.WithAcquirerLogger(p.log))
		p.observer = authflow.NewObserver(p.idp, p.resolver, p.store,
			authflow.WithObserverLogger(p.log))

		httpClient := authflow.NewAuthenticatedClient(p.store, p.idp, p.log)
		p.sdkClient = sdk.NewClient(p.serverURL, sdk.WithHTTPClient(httpClient))
	})
	return p.initErr
}

// Bootstrap restores any persisted session into the identity provider
// and starts the lifecycle observer. Safe to call more than once; the
// work runs only the first time.
func (p *Provider) Bootstrap(ctx context.Context) error {
	if err := p.init(); err != nil {
		return err
	}
	p.bootstrapOnce.Do(func() {
		snap, err := p.fileStore.Load()
		if err != nil {
			p.log.Warn("failed to load persisted session", zap.Error(err))
		}
		if snap != nil && snap.AccessToken != "" {
			sess := &identity.Session{
				AccessToken: snap.AccessToken,
				ExpiresAt:   snap.ExpiresAt,
			}
			if snap.Identity != nil {
				sess.Identity = *snap.Identity
			}
			p.idp.RestoreSession(sess)
		}
		p.bootstrapErr = p.observer.Start(ctx)
	})
	return p.bootstrapErr
}

// Store returns the shared credential store.
func (p *Provider) Store() (*authflow.Store, error) {
	if err := p.init(); err != nil {
		return nil, err
	}
	return p.store, nil
}

// FileStore returns the persisted-session store.
func (p *Provider) FileStore() (*auth.FileStore, error) {
	if err := p.init(); err != nil {
		return nil, err
	}
	return p.fileStore, nil
}

// IdentityProvider returns the identity provider client.
func (p *Provider) IdentityProvider() (*identity.HTTPProvider, error) {
	if err := p.init(); err != nil {
		return nil, err
	}
	return p.idp, nil
}

// Acquirer returns the session acquirer for explicit logins.
func (p *Provider) Acquirer() (*authflow.Acquirer, error) {
	if err := p.init(); err != nil {
		return nil, err
	}
	return p.acquirer, nil
}

// Observer returns the lifecycle observer.
func (p *Provider) Observer() (*authflow.Observer, error) {
	if err := p.init(); err != nil {
		return nil, err
	}
	return p.observer, nil
}

// SDKClient returns the authenticated backend client.
func (p *Provider) SDKClient() (*sdk.Client, error) {
	if err := p.init(); err != nil {
		return nil, err
	}
	return p.sdkClient, nil
}
