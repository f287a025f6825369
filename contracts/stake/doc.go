/*
Package stake implements Stake contract which distributes fee rewards among
stakers.

The contract is funded with the configured NEP-17 token by the fee source
account. The operator account periodically calls processRewards method which
transfers the configured amount of tokens from the contract account to the
stakers in equal shares. No other account can trigger the distribution.

Stakers, operator, fee source, amount and token are set at deployment stage
and never change. Operator of the Stake contract is not related to the
operator role of the Fee contract.

# Contract notifications

Distribution notification. This notification is produced when rewards are
distributed among stakers.

	Distribution:
	  - name: operator
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: share
	    type: Integer
*/
package stake

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'stakers' -> std.Serialize([]interop.Hash160)
    reward recipients
  - 'operator' -> interop.Hash160
    the only account allowed to distribute rewards
  - 'feeSource' -> interop.Hash160
    the only account allowed to fund the contract
  - 'amount' -> int
    amount of tokens distributed per call
  - 'token' -> interop.Hash160
    NEP-17 token contract
*/
