// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

// nativeMethod describes a native call reachable through timelocked actions.
type nativeMethod struct {
	addr      tdrop.Address
	signature string
	args      abi.Arguments
	run       func(env *env) error
}

// env of native call invocation.
type env struct {
	*Natives
	Caller tdrop.Address
	args   []any
}

// Arg returns the i-th decoded argument.
func (e *env) Arg(i int) any {
	return e.args[i]
}

func (c *contract) impl(signature string, run func(env *env) error) *nativeMethod {
	return &nativeMethod{
		addr:      c.Address,
		signature: signature,
		args:      mustParseArguments(signature),
		run:       run,
	}
}

// mustParseArguments builds abi arguments from a signature like "transfer(address,uint256)".
func mustParseArguments(signature string) abi.Arguments {
	open := strings.IndexByte(signature, '(')
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		panic(fmt.Errorf("invalid signature %q", signature))
	}
	list := signature[open+1 : len(signature)-1]
	if list == "" {
		return abi.Arguments{}
	}
	var args abi.Arguments
	for _, t := range strings.Split(list, ",") {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			panic(fmt.Errorf("signature %q: %w", signature, err))
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args
}

// EncodeCall abi encodes args of signature, without selector.
func EncodeCall(signature string, args ...any) ([]byte, error) {
	return mustParseArguments(signature).Pack(args...)
}

// EncodeCallWithSelector prefixes the encoded args with the 4 bytes selector of signature.
func EncodeCallWithSelector(signature string, args ...any) ([]byte, error) {
	data, err := EncodeCall(signature, args...)
	if err != nil {
		return nil, err
	}
	selector := tdrop.Selector(signature)
	return append(selector[:], data...), nil
}

// Call resolves target and signature to a native method and runs it on behalf of caller.
// An empty signature means data carries the 4 bytes selector.
func (n *Natives) Call(caller, target tdrop.Address, signature string, data []byte) error {
	var selector [4]byte
	if signature == "" {
		if len(data) < 4 {
			return errors.WithMessage(reverts.ErrInvalidArgument, "calldata without selector")
		}
		copy(selector[:], data)
		data = data[4:]
	} else {
		selector = tdrop.Selector(signature)
	}

	methods, ok := nativeMethods[target]
	if !ok {
		return errors.WithMessagef(reverts.ErrInvalidArgument, "no native contract at %v", target)
	}
	method, ok := methods[selector]
	if !ok {
		return errors.WithMessagef(reverts.ErrInvalidArgument, "unknown method %x of %v", selector, target)
	}
	args, err := method.args.Unpack(data)
	if err != nil {
		return errors.WithMessagef(reverts.ErrInvalidArgument, "decode %s: %v", method.signature, err)
	}
	logger.Debug("native call", "caller", caller, "target", target, "method", method.signature)
	return method.run(&env{n, caller, args})
}
