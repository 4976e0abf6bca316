package epilogos

var Stream = stream
