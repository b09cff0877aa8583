package constants

const FormScale float64 = 1e-2                                  // (Δρ [1e-6 Å^-2] * V [Å^3])^2 / V -> I [cm^-1]
const FourThirdsPi float64 = 4.18879020478639098461685784437   // 4π/3
const Sas3j1xxSeriesCutoff float64 = 0.1                        // |x| below which the Taylor branch is used
const Sas3j1xxFirstZero float64 = 4.493409457909064175307880927 // first positive root of tan(x) = x
