/*
Package fee implements Fee contract which keeps the set of co-equal owners
and privileged roles of the LEV fee token.

Any single owner has full authority over the owner set and roles: it can add
or remove another owner and reassign minter and operator roles without any
approval of the other owners. There is no voting or timelock. The only
restriction is that the owner set can never become empty.

Every state-changing method takes the account it acts on behalf of as the
first argument. The account must witness the transaction.

# Contract notifications

AddOwner notification. This notification is produced when a new account is
added to the owner list.

	AddOwner:
	  - name: caller
	    type: Hash160
	  - name: owner
	    type: Hash160

RemoveOwner notification. This notification is produced when an account is
removed from the owner list.

	RemoveOwner:
	  - name: caller
	    type: Hash160
	  - name: owner
	    type: Hash160

SetMinter notification. This notification is produced when minter role is
reassigned.

	SetMinter:
	  - name: caller
	    type: Hash160
	  - name: minter
	    type: Hash160

SetOperator notification. This notification is produced when operator role is
reassigned.

	SetOperator:
	  - name: caller
	    type: Hash160
	  - name: operator
	    type: Hash160
*/
package fee

/*
Contract storage model.

# Summary
Key-value storage format:
  - 0x01 + <10-digit decimal sequence number> -> interop.Hash160
    owner list ordered by the addition time
  - 0x02 + interop.Hash160 -> int
    sequence number of the owner
  - 'seq' -> int
    sequence number of the next owner
  - 'count' -> int
    number of owners
  - 'minter' -> interop.Hash160
    minter account
  - 'operator' -> interop.Hash160
    operator account
  - 'name', 'symbol' -> string, 'decimals' -> int
    token metadata

# Owners
Sequence numbers are never reused, so removed owners being added again go
to the end of the list.
*/
