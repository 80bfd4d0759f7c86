package router

import (
	ethabi "github.com/umbracle/ethgo/abi"

	"github.com/MussinaLin/protocolink-go/contracts/routerabi"
)

var (
	executeABI    = ethabi.MustNewABI(routerabi.ExecuteABI)
	executeMethod = executeABI.GetMethod("ROUTER_EXECUTE")

	erc20ABI = ethabi.MustNewABI(routerabi.ERC20ABI)
	wethABI  = ethabi.MustNewABI(routerabi.WETHABI)

	chargedEvent = ethabi.MustNewABI(routerabi.ChargedEventABI).Events["Charged"]
)
