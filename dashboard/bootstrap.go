// Package dashboard
package dashboard

import (
	"context"

	"github.com/M-QiiQ/TMU-AI-DAO/agent"
	"github.com/M-QiiQ/TMU-AI-DAO/contracts"
)

// SessionBootstrapper bootstraps an agent session and binds both contract clients to it.
// The Backend and Signer fields of the contract configs are filled from the session.
func SessionBootstrapper(agentCfg agent.Config, governanceCfg, tokenCfg contracts.Config) Bootstrapper {
	return func(ctx context.Context) (*Services, error) {
		session, err := agent.Bootstrap(ctx, agentCfg)
		if err != nil {
			return nil, err
		}

		governanceCfg.Backend = session.Backend()
		governanceCfg.Signer = session
		governance, err := contracts.NewGovernance(governanceCfg)
		if err != nil {
			session.Close()
			return nil, err
		}

		tokenCfg.Backend = session.Backend()
		token, err := contracts.NewToken(tokenCfg)
		if err != nil {
			session.Close()
			return nil, err
		}

		return &Services{
			Principal:  session.Principal(),
			Governance: governance,
			Token:      token,
			Trusted:    session.Trusted(),
			Close:      session.Close,
		}, nil
	}
}
