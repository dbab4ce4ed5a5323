// Package agent
package agent

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/M-QiiQ/TMU-AI-DAO/utils"
)

// AnonymousPrincipal is the identity of a session without a key.
var AnonymousPrincipal = common.Address{}

func loadIdentity(hexKey string) (*ecdsa.PrivateKey, common.Address, error) {
	hexKey = utils.CleanUpHex(hexKey)
	if hexKey == "" {
		return nil, AnonymousPrincipal, nil
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, common.Address{}, errors.Wrap(err, "load identity key")
	}
	return key, crypto.PubkeyToAddress(key.PublicKey), nil
}
