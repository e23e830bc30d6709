/*
Package templates holds the static baseline descriptors embedded at build
time, one per asset kind. A template is a declarative resource description
with well-known substitution sites (namespace, configmap data); the compiler
loads one by kind and fills the sites. No template is ever executed, only
specialized.
*/
package templates
