// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the accounts of the emulated chain.
// It follows the flow as bellow:
//
//	         [ Diff ]
//	            |
//	      [ Diff.Check ] -> [ invariant checks ]
//	            |
//	  [ copy-on-write tree copy ] -> [ swap ]
//	            |
//	        [ Store ]
//
// Accounts and their storage are kept in persistent btrees. Copy is O(1) and a copy never
// observes writes made to another one, which is what snapshots rely on.
package state
