// Package contracts holds the typed clients for the governance and token contracts.
package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	ServiceGovernance = "governance"
	ServiceToken      = "token"

	MethodListProposals  = "listProposals"
	MethodSubmitProposal = "submitProposal"
	MethodBalanceOf      = "balanceOf"

	EventProposalSubmitted = "ProposalSubmitted"
)

const GovernanceABI = `[
	{
		"type": "function",
		"name": "listProposals",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [
			{
				"name": "",
				"type": "tuple[]",
				"components": [
					{"name": "title", "type": "string"},
					{"name": "description", "type": "string"},
					{"name": "votesYes", "type": "uint256"},
					{"name": "votesNo", "type": "uint256"},
					{"name": "deadline", "type": "uint256"}
				]
			}
		]
	},
	{
		"type": "function",
		"name": "submitProposal",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "title", "type": "string"},
			{"name": "description", "type": "string"},
			{"name": "durationSeconds", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "event",
		"name": "ProposalSubmitted",
		"anonymous": false,
		"inputs": [
			{"name": "id", "type": "uint256", "indexed": true},
			{"name": "proposer", "type": "address", "indexed": true}
		]
	}
]`

const TokenABI = `[
	{
		"type": "function",
		"name": "balanceOf",
		"stateMutability": "view",
		"inputs": [{"name": "owner", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}]
	}
]`

var (
	governanceABI = mustParseABI(GovernanceABI)
	tokenABI      = mustParseABI(TokenABI)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
