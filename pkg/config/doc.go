/*
Package config loads the startup configuration file: the CORS policy applied
to every response and the name of the request header that identifies the
tenant. The file is read once at boot; an unreadable or malformed file is a
startup error and a nonzero exit.
*/
package config
