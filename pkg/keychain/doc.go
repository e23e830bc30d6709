/*
Package keychain derives devnet key material from BIP39 mnemonics: the
compressed secret key hex the blockchain node uses as its seed, and the
c32check-encoded STX address that funds accounts and receives the coinbase.
*/
package keychain
