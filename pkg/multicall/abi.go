package multicall

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethCommon "github.com/ethereum/go-ethereum/common"
)

// DefaultAddress is the deterministic Multicall3 deployment, present on every supported chain.
var DefaultAddress = ethCommon.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

const multicall3ABI = `[
  {
    "inputs": [
      {"internalType": "bool", "name": "requireSuccess", "type": "bool"},
      {
        "components": [
          {"internalType": "address", "name": "target", "type": "address"},
          {"internalType": "bytes", "name": "callData", "type": "bytes"}
        ],
        "internalType": "struct Multicall3.Call[]",
        "name": "calls",
        "type": "tuple[]"
      }
    ],
    "name": "tryAggregate",
    "outputs": [
      {
        "components": [
          {"internalType": "bool", "name": "success", "type": "bool"},
          {"internalType": "bytes", "name": "returnData", "type": "bytes"}
        ],
        "internalType": "struct Multicall3.Result[]",
        "name": "returnData",
        "type": "tuple[]"
      }
    ],
    "stateMutability": "payable",
    "type": "function"
  }
]`

const tryAggregateMethod = "tryAggregate"

// ABI is the parsed Multicall3 fragment containing tryAggregate.
var ABI = mustParseABI(multicall3ABI)

func mustParseABI(fragment string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(fragment))
	if err != nil {
		panic(err)
	}
	return parsed
}
