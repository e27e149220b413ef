package httpserver

var RemoteIP = remoteIP
