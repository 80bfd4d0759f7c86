// Package routerabi holds the ABI JSON for the router surfaces in one place.
package routerabi

// ExecuteABI is the agent entry point. Callback contracts re-enter through
// this same function.
const ExecuteABI = `
[{"type":"function","name":"ROUTER_EXECUTE",
  "inputs":[
    {"name":"logics","type":"tuple[]","components":[
      {"name":"to","type":"address"},
      {"name":"data","type":"bytes"},
      {"name":"inputs","type":"tuple[]","components":[
        {"name":"token","type":"address"},
        {"name":"balanceBps","type":"uint256"},
        {"name":"amountOrOffset","type":"uint256"}]},
      {"name":"wrapMode","type":"uint8"},
      {"name":"approveTo","type":"address"},
      {"name":"callback","type":"address"}]},
    {"name":"tokensReturn","type":"address[]"},
    {"name":"feeEnabled","type":"bool"}],
  "outputs":[{"name":"success","type":"bool"}]}]`

// ERC20ABI is the standard EIP-20 surface plus a mint hook used to seed
// balances in tests and genesis setups.
const ERC20ABI = `
[{"type":"function","name":"totalSupply","inputs":[],
  "outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"balanceOf",
  "inputs":[{"name":"account","type":"address"}],
  "outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"allowance",
  "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
  "outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"transfer",
  "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
  "outputs":[{"name":"","type":"bool"}]},
 {"type":"function","name":"approve",
  "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
  "outputs":[{"name":"","type":"bool"}]},
 {"type":"function","name":"transferFrom",
  "inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
  "outputs":[{"name":"","type":"bool"}]},
 {"type":"function","name":"mint",
  "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
  "outputs":[]}]`

// WETHABI is the wrapped-native surface on top of ERC20ABI.
const WETHABI = `
[{"type":"function","name":"deposit","inputs":[],"outputs":[]},
 {"type":"function","name":"withdraw",
  "inputs":[{"name":"amount","type":"uint256"}],
  "outputs":[]}]`

// ChargedEventABI is emitted by the agent once per nonzero fee transfer.
const ChargedEventABI = `
[{"type":"event","name":"Charged","inputs":[
  {"name":"token","type":"address"},
  {"name":"amount","type":"uint256"},
  {"name":"collector","type":"address"}]}]`
