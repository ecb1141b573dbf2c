package asset

import "time"

const solarFC = `{"type":"FeatureCollection","features":[
 {"type":"Feature","geometry":{"type":"Point","coordinates":[11.57,48.14]},
  "properties":{"id":"SEE1","name":"Solarpark Nord","type":"solar","status":"In Betrieb","grossPower":5000,"netPower":4800,
   "bundesland":"Bayern","city":"München","postalCode":"80331","operator":"Stadtwerke","commissioningDate":"2021-05-01",
   "storageTechnology":null,"storageCapacity":0,"solarType":"Freiflächensolaranlage","moduleCount":12000}},
 {"type":"Feature","geometry":{"type":"Point","coordinates":[9.18,48.78]},
  "properties":{"id":"SEE2","name":"","type":"solar","status":"In Planung","grossPower":800,"netPower":750,
   "bundesland":"Baden-Württemberg","city":"Stuttgart","postalCode":"70173","operator":"Privat","commissioningDate":"",
   "storageTechnology":null,"storageCapacity":0,"solarType":null,"moduleCount":null}},
 {"type":"Feature","geometry":{"type":"LineString","coordinates":[[9,48],[10,49]]},
  "properties":{"id":"SEE3","name":"Broken","type":"solar"}}
]}`

const bessFC = `{"type":"FeatureCollection","features":[
 {"type":"Feature","geometry":{"type":"Point","coordinates":[13.40,52.52]},
  "properties":{"id":"SEE9","name":"Speicher Berlin","type":"bess","status":"In Betrieb","grossPower":20000,"netPower":20000,
   "bundesland":"Berlin","city":"Berlin","postalCode":"10115","operator":"Netz AG","commissioningDate":"2023-01-01",
   "storageTechnology":"Batterie","storageCapacity":40000,"solarType":null,"moduleCount":null}}
]}`

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)
